package transcript

import "testing"

func TestIsSubstantive(t *testing.T) {
	casual := []string{
		"ok",
		"thanks",
		"thank you so much!",
		"good morning",
		"hey there friend",
		"nevermind, all good",
		"lol that was funny",
		"how's the weather over there",
		"sounds good",
		"yep",
		"short",
	}
	for _, text := range casual {
		if IsSubstantive(text) {
			t.Errorf("IsSubstantive(%q) = true, want false", text)
		}
	}

	substantive := []string{
		"Can you refactor the auth module to use JWT",
		"deploy the new landing page to production",
		"investigate why the nightly backup failed",
	}
	for _, text := range substantive {
		if !IsSubstantive(text) {
			t.Errorf("IsSubstantive(%q) = false, want true", text)
		}
	}
}
