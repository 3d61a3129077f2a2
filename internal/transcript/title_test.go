package transcript

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSynthesizeTitle(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			"preamble stripped and capitalized",
			"Can you refactor the auth module to use JWT",
			"Refactor the auth module to use JWT",
		},
		{
			"stacked preambles",
			"please go ahead and restart the gateway",
			"Restart the gateway",
		},
		{
			"url placeholder",
			"summarize https://example.com/some/long/article for me",
			"Summarize [link] for me",
		},
		{
			"inline code placeholder",
			"rename `oldFunc` across the repo",
			"Rename [code] across the repo",
		},
		{
			"newlines collapsed",
			"fix the build\nthen rerun the tests",
			"Fix the build then rerun the tests",
		},
		{
			"bullet list uses first bullet",
			"- update the changelog\n- tag the release\n- announce it",
			"Update the changelog",
		},
	}

	for _, tc := range cases {
		if got := SynthesizeTitle(tc.text); got != tc.want {
			t.Errorf("%s: SynthesizeTitle(%q) = %q, want %q", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestSynthesizeTitleCodeFence(t *testing.T) {
	text := "apply this patch\n```go\nfunc main() {}\n```\nto the daemon"
	got := SynthesizeTitle(text)
	if strings.Contains(got, "func main") {
		t.Errorf("code fence leaked into title: %q", got)
	}
	if !strings.Contains(got, "[code]") {
		t.Errorf("expected code placeholder in %q", got)
	}
}

func TestSynthesizeTitleTruncation(t *testing.T) {
	text := "investigate the intermittent connection timeouts that keep happening on the production gateway every night"
	got := SynthesizeTitle(text)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if utf8.RuneCountInString(got) > titleMaxLen+1 {
		t.Errorf("title too long (%d runes): %q", utf8.RuneCountInString(got), got)
	}
	// Truncation lands on a word boundary, never mid-word.
	trimmed := strings.TrimSuffix(got, "…")
	if strings.HasSuffix(trimmed, " ") {
		t.Errorf("dangling space before ellipsis: %q", got)
	}
}
