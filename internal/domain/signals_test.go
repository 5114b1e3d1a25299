package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/dinoai/omnicast/internal/domain"
)

func TestComputeSignals_Score(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]

	// Empty text scores zero.
	sig := domain.ComputeSignals(domain.Variant{}, twitter)
	assert.Equal(t, 0, sig.Score)
	assert.Equal(t, 0, sig.CharCount)
	assert.False(t, sig.OverLimit)

	// Length over 20 chars.
	sig = domain.ComputeSignals(domain.Variant{Text: "this text is over twenty chars"}, twitter)
	assert.Equal(t, 20, sig.Score)

	// Length plus hashtag.
	sig = domain.ComputeSignals(domain.Variant{Text: "this text is over twenty chars #golang"}, twitter)
	assert.Equal(t, 35, sig.Score)

	// Length plus hashtag plus media.
	sig = domain.ComputeSignals(domain.Variant{
		Text:     "this text is over twenty chars #golang",
		MediaRef: "uploads/launch.png",
	}, twitter)
	assert.Equal(t, 65, sig.Score)

	// Short text with media only.
	sig = domain.ComputeSignals(domain.Variant{Text: "hi", MediaRef: "x.png"}, twitter)
	assert.Equal(t, 30, sig.Score)
}

func TestComputeSignals_CharLimit(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]
	instagram := domain.Platforms[domain.PlatformInstagram]

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	v := domain.Variant{Text: string(long)}

	sig := domain.ComputeSignals(v, twitter)
	assert.Equal(t, 280, sig.CharLimit)
	assert.True(t, sig.OverLimit)

	sig = domain.ComputeSignals(v, instagram)
	assert.Equal(t, 2200, sig.CharLimit)
	assert.False(t, sig.OverLimit)
}

func TestComputeSignals_CountsCharactersNotBytes(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]

	// 280 two-byte characters fill the limit exactly.
	sig := domain.ComputeSignals(domain.Variant{Text: strings.Repeat("é", 280)}, twitter)
	assert.Equal(t, 280, sig.CharCount)
	assert.False(t, sig.OverLimit)

	sig = domain.ComputeSignals(domain.Variant{Text: strings.Repeat("é", 281)}, twitter)
	assert.Equal(t, 281, sig.CharCount)
	assert.True(t, sig.OverLimit)

	// Emoji count as one character each.
	sig = domain.ComputeSignals(domain.Variant{Text: "Launch day \U0001F680"}, twitter)
	assert.Equal(t, 12, sig.CharCount)
}

func TestComputeSignals_Sentiment(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]

	sig := domain.ComputeSignals(domain.Variant{Text: "hi"}, twitter)
	assert.Equal(t, 20, sig.Sentiment.Joy)
	assert.Equal(t, 40, sig.Sentiment.Trust)
	assert.Equal(t, 30, sig.Sentiment.Urgency)
	assert.Equal(t, 30, sig.Sentiment.Logic)
	assert.Equal(t, 20, sig.Sentiment.Hype)

	text := "Huge news today! We just shipped the thing \U0001F680"
	sig = domain.ComputeSignals(domain.Variant{Text: text}, twitter)
	n := utf8.RuneCountInString(text)
	assert.Equal(t, 60+n%30, sig.Sentiment.Joy)
	assert.Equal(t, 80, sig.Sentiment.Trust)
	assert.Equal(t, 90, sig.Sentiment.Urgency)
	assert.Equal(t, 30, sig.Sentiment.Logic)
	assert.Equal(t, 95, sig.Sentiment.Hype)
}

func TestComputeSignals_Keywords(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]

	sig := domain.ComputeSignals(domain.Variant{
		Text: "shipping amazing features quickly despite enormous complexity issues today",
	}, twitter)
	assert.Equal(t, []string{"shipping", "amazing", "features", "quickly", "despite"}, sig.Keywords)

	sig = domain.ComputeSignals(domain.Variant{Text: "a b c d"}, twitter)
	assert.Empty(t, sig.Keywords)
}

func TestComputeSignals_Deterministic(t *testing.T) {
	twitter := domain.Platforms[domain.PlatformTwitter]
	v := domain.Variant{Text: "same input every time #stable", MediaRef: "m.png"}

	first := domain.ComputeSignals(v, twitter)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, domain.ComputeSignals(v, twitter))
	}
}
