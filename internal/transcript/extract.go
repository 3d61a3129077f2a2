package transcript

import (
	"regexp"
	"strings"
)

// Extractor recovers the user's actual words from transcript text that the
// runtime has prefixed with channel routing tags, e.g.
//
//	[Telegram Bob id:42] can you deploy the site [message_id: 7]
//
// The recognized channel names are configurable; new channels only need a
// config entry, not a code change.
type Extractor struct {
	tagRe       *regexp.Regexp
	messageIDRe *regexp.Regexp
}

// NewExtractor builds an Extractor for the given channel tag names.
func NewExtractor(channelTags []string) *Extractor {
	names := make([]string, 0, len(channelTags))
	for _, tag := range channelTags {
		if tag != "" {
			names = append(names, regexp.QuoteMeta(tag))
		}
	}
	if len(names) == 0 {
		names = []string{"Telegram", "Signal", "Discord", "WhatsApp"}
	}
	// A channel tag is a bracket starting with a known channel name,
	// optionally followed by further bracketed content.
	pattern := `\[(?:` + strings.Join(names, "|") + `)[^\]]*\](?:\s*\[[^\]]*\])*\s*`
	return &Extractor{
		tagRe:       regexp.MustCompile(pattern),
		messageIDRe: regexp.MustCompile(`\s*\[message_id:\s*\d+\]\s*$`),
	}
}

// UserText extracts the user's own text from a raw transcript message.
// Returns "" when the message carries no extractable user text.
func (e *Extractor) UserText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Injected system prefixes can precede the real channel tag, so the
	// last tag occurrence wins.
	locs := e.tagRe.FindAllStringIndex(raw, -1)
	if locs == nil {
		if strings.HasPrefix(raw, "System:") {
			return ""
		}
		return strings.TrimSpace(e.messageIDRe.ReplaceAllString(raw, ""))
	}

	last := locs[len(locs)-1]
	text := raw[last[1]:]
	text = e.messageIDRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
