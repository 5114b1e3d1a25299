package domain

import (
	"strings"
	"unicode/utf8"
)

// Signals are the derived fields recomputed synchronously on every edit of
// the active variant. Pure and deterministic; no I/O.
type Signals struct {
	CharCount int
	CharLimit int
	OverLimit bool

	// Score is the heuristic engagement score, 0-100.
	Score int

	// Keywords are up to five long-ish words pulled from the text.
	Keywords []string

	Sentiment Sentiment
}

// Sentiment is the five-axis heuristic used by the dashboard's radar view.
type Sentiment struct {
	Joy     int
	Trust   int
	Urgency int
	Logic   int
	Hype    int
}

// ComputeSignals derives the composer's signals for a variant previewed on
// the given platform. The scoring weights follow the dashboard heuristic:
// length over 20 chars, a hashtag, and attached media each add to the score.
func ComputeSignals(v Variant, preview Platform) Signals {
	text := v.Text
	// Limits are in characters; byte length would misreport multibyte text.
	n := utf8.RuneCountInString(text)

	score := 0
	if n > 20 {
		score += 20
	}
	if strings.Contains(text, "#") {
		score += 15
	}
	if v.MediaRef != "" {
		score += 30
	}
	if score > 100 {
		score = 100
	}

	joy := 20
	if n > 10 {
		joy = 60 + n%30
	}
	trust := 40
	if n > 30 {
		trust = 80
	}
	urgency := 30
	if strings.Contains(text, "!") {
		urgency = 90
	}
	logic := 30
	if n > 50 {
		logic = 75
	}
	hype := 20
	if strings.Contains(text, "\U0001F680") {
		hype = 95
	}

	var keywords []string
	for _, w := range strings.Fields(text) {
		if len(w) > 5 {
			keywords = append(keywords, w)
			if len(keywords) == 5 {
				break
			}
		}
	}

	return Signals{
		CharCount: n,
		CharLimit: preview.CharLimit,
		OverLimit: n > preview.CharLimit,
		Score:     score,
		Keywords:  keywords,
		Sentiment: Sentiment{Joy: joy, Trust: trust, Urgency: urgency, Logic: logic, Hype: hype},
	}
}
