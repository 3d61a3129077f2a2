package transcript

import (
	"regexp"
	"strings"
)

// minSubstantiveLen is the shortest message that can become a task.
const minSubstantiveLen = 10

// casualPatterns match chit-chat at the start of a message: greetings,
// acknowledgments, sign-offs, weather small talk. Matched case-insensitively.
var casualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|yo|sup)\b`),
	regexp.MustCompile(`(?i)^good (morning|afternoon|evening|night)\b`),
	regexp.MustCompile(`(?i)^(ok(ay)?|kk|sure|yes|yep|yeah|no|nope|nah)\b[\s!.]*$`),
	regexp.MustCompile(`(?i)^(thanks|thank you|thx|ty)\b`),
	regexp.MustCompile(`(?i)^(never ?mind|nvm|forget it)\b`),
	regexp.MustCompile(`(?i)^(cool|nice|great|awesome|perfect|got it|sounds good|will do)\b[\s!.]*$`),
	regexp.MustCompile(`(?i)^(lol|haha|hehe)\b`),
	regexp.MustCompile(`(?i)^(bye|goodbye|good ?night|see you|later)\b`),
	regexp.MustCompile(`(?i)^(how('s| is) the weather|nice weather|what a (lovely|nice) day)\b`),
	regexp.MustCompile(`(?i)^(how are you|what's up|how's it going)\b`),
}

// IsSubstantive reports whether text plausibly represents a real request
// rather than casual chat.
func IsSubstantive(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < minSubstantiveLen {
		return false
	}
	for _, re := range casualPatterns {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}
