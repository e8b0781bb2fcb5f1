package match

import "strings"

// MapProviderStatus classifies the provider's free-text status. The
// description is examined, or shortDetail when the description is blank.
// Rules are ordered and the first hit wins, so "Halftime" (contains "ft")
// lands on finished.
func MapProviderStatus(description, shortDetail string) Status {
	text := description
	if strings.TrimSpace(text) == "" {
		text = shortDetail
	}
	text = strings.ToLower(text)

	switch {
	case containsAny(text, "full time", "ft"):
		return StatusFinished
	case containsAny(text, "in progress", "live", "second", "half"):
		return StatusLive
	case strings.Contains(text, "postponed"):
		return StatusPostponed
	case strings.Contains(text, "cancelled"):
		return StatusCancelled
	default:
		return StatusScheduled
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
