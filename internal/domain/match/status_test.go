package match

import "testing"

func TestMapProviderStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		shortDetail string
		want        Status
	}{
		{"Full Time", "", StatusFinished},
		{"FT", "", StatusFinished},
		{"", "FT", StatusFinished},
		{"Halftime", "HT", StatusFinished},
		{"First Half", "", StatusLive},
		{"Second Half", "", StatusLive},
		{"In Progress", "", StatusLive},
		{"Postponed", "", StatusPostponed},
		{"Cancelled", "", StatusCancelled},
		{"Scheduled", "", StatusScheduled},
		{"Abandoned", "", StatusScheduled},
		{"", "", StatusScheduled},
		{"  ", "Postponed", StatusPostponed},
	}

	for _, tc := range cases {
		if got := MapProviderStatus(tc.description, tc.shortDetail); got != tc.want {
			t.Fatalf("MapProviderStatus(%q, %q)=%s want %s", tc.description, tc.shortDetail, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if s, ok := ParseStatus(" Finished "); !ok || s != StatusFinished {
		t.Fatalf("expected finished, got %q ok=%t", s, ok)
	}
	if _, ok := ParseStatus("abandoned"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
