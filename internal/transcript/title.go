package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// titleMaxLen caps synthesized task titles.
const titleMaxLen = 60

var (
	codeFenceRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]*`")
	urlRe        = regexp.MustCompile(`https?://\S+`)
	bulletRe     = regexp.MustCompile(`^[-*•]\s+(.*)$`)
	preambleRe   = regexp.MustCompile(`(?i)^(can you|could you|please|i want you to|i need you to|go ahead and)[\s,]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SynthesizeTitle boils a user message down to a short task title.
func SynthesizeTitle(text string) string {
	text = codeFenceRe.ReplaceAllString(text, "[code]")
	text = inlineCodeRe.ReplaceAllString(text, "[code]")
	text = urlRe.ReplaceAllString(text, "[link]")

	// A bullet list collapses to its first bullet.
	if first := firstBullet(text); first != "" {
		text = first
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	// Peel polite preambles ("please can you ..." sheds both).
	for {
		stripped := preambleRe.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}

	text = capitalize(text)

	if utf8.RuneCountInString(text) <= titleMaxLen {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:titleMaxLen])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// firstBullet returns the first bullet's text when the message is a bullet
// list, or "" otherwise.
func firstBullet(text string) string {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return ""
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
