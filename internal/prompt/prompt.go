// Package prompt builds the system instructions sent to the generation
// service. Everything here is pure string assembly: no I/O, no error paths.
package prompt

import (
	"fmt"
	"strings"

	"github.com/dinoai/omnicast/internal/domain"
)

// Mode is the enumerated intent of an assist call. Each mode selects one
// instruction template; unrecognized values fall back to ModeDefault.
type Mode string

const (
	ModeRewrite   Mode = "rewrite"
	ModeTranslate Mode = "translate"
	ModeIdeas     Mode = "ideas"
	ModeScript    Mode = "script"
	ModeImage     Mode = "image"
	ModeHashtags  Mode = "hashtags"
	ModeThread    Mode = "thread"
	ModeEnhance   Mode = "enhance"
	ModeReply     Mode = "reply"
	ModeDefault   Mode = "default"
)

// Modes lists every defined mode.
var Modes = []Mode{
	ModeRewrite, ModeTranslate, ModeIdeas, ModeScript, ModeImage,
	ModeHashtags, ModeThread, ModeEnhance, ModeReply, ModeDefault,
}

// ParseMode maps a wire string to a Mode. Unknown and empty strings map to
// ModeDefault rather than failing.
func ParseMode(s string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m
		}
	}
	return ModeDefault
}

// BuildInstruction composes the full instruction for one assist call. The
// result is non-empty for every mode and embeds userText exactly once. Tone
// defaults to "engaging" when empty. Total function: no validation beyond
// existence is performed on userText.
func BuildInstruction(mode Mode, tone string, platform domain.PlatformID, userText string) string {
	if tone == "" {
		tone = "engaging"
	}

	var b strings.Builder
	switch mode {
	case ModeRewrite:
		b.WriteString("ROLE: Social Media Copywriter.\n")
		fmt.Fprintf(&b, "TASK: Rewrite the post below to be more engaging, viral, and professional. Keep the meaning the same but upgrade the tone to %s.\n", tone)
		b.WriteString("CONSTRAINT: Output only the rewritten post, no commentary.")
	case ModeTranslate:
		b.WriteString("ROLE: Expert Translator.\n")
		fmt.Fprintf(&b, "TASK: Translate the post below into %s, keeping the tone natural and authentic to that language.\n", tone)
		b.WriteString("CONSTRAINT: Keep all emojis, hashtags, and formatting exactly the same. Do not translate proper nouns like \"Dino AI\".")
	case ModeIdeas:
		b.WriteString("ROLE: Content Strategist.\n")
		fmt.Fprintf(&b, "TASK: Generate 3 creative social media post ideas based on the topic below. TONE: %s.", tone)
	case ModeScript:
		fmt.Fprintf(&b, "ROLE: Scriptwriter.\nTASK: Viral video script (60s). TONE: %s.", tone)
	case ModeImage:
		b.WriteString("ROLE: Prompt Engineer.\nTASK: 3 Midjourney prompts.")
	case ModeHashtags:
		b.WriteString("ROLE: SEO Specialist.\nTASK: High volume hashtags.")
	case ModeThread:
		b.WriteString("ROLE: Ghostwriter.\nTASK: Twitter thread repurposing.")
	case ModeEnhance:
		b.WriteString("ROLE: Editor.\nTASK: Improve this prompt for an LLM.")
	case ModeReply:
		b.WriteString("ROLE: Social Media Community Manager for a Tech Brand.\n")
		b.WriteString("TASK: Write a reply to the user comment below.\n")
		fmt.Fprintf(&b, "TONE: %s.\n", tone)
		b.WriteString("CONSTRAINT: Keep it under 280 characters. Do not include hashtags unless necessary.\n")
		b.WriteString("CONTEXT: The user is commenting on a post about AI tools.")
	default:
		fmt.Fprintf(&b, "ROLE: Social Manager. PLATFORM: %s. VIBE: %s.", platformLabel(platform), tone)
	}

	fmt.Fprintf(&b, "\n\nUSER INPUT: \"%s\"", userText)
	return b.String()
}

func platformLabel(p domain.PlatformID) string {
	if p == "" {
		return "social media"
	}
	return string(p)
}
