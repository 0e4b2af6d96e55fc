package repositories

import "testing"

func TestEscapeLikePattern(t *testing.T) {
	cases := map[string]string{
		"plain":        "plain",
		"50% off":      `50\% off`,
		"snake_case":   `snake\_case`,
		`back\slash`:   `back\\slash`,
		`%_\`:          `\%\_\\`,
		"":             "",
		"cat vs. dog?": "cat vs. dog?",
	}
	for in, want := range cases {
		if got := escapeLikePattern(in); got != want {
			t.Fatalf("escapeLikePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseVideoSortField(t *testing.T) {
	valid := map[string]VideoSortField{
		"":           VideoSortCreatedAt,
		"created_at": VideoSortCreatedAt,
		"views":      VideoSortViews,
		"duration":   VideoSortDuration,
		"title":      VideoSortTitle,
		" Views ":    VideoSortViews,
	}
	for in, want := range valid {
		got, ok := ParseVideoSortField(in)
		if !ok || got != want {
			t.Fatalf("ParseVideoSortField(%q) = (%q, %t), want (%q, true)", in, got, ok, want)
		}
	}

	for _, in := range []string{"rating", "owner_id; DROP TABLE", "created_at DESC"} {
		if _, ok := ParseVideoSortField(in); ok {
			t.Fatalf("ParseVideoSortField(%q) must be rejected", in)
		}
	}
}
