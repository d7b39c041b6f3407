package age

import (
	"testing"
	"time"
)

func TestShort(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{59 * time.Second, "59s"},
		{90 * time.Second, "1m"},
		{2 * time.Hour, "2h"},
		{49 * time.Hour, "2d"},
		{-3 * time.Minute, "3m"},
	}
	for _, tc := range cases {
		if got := Short(tc.in); got != tc.want {
			t.Errorf("Short(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		then time.Time
		want string
	}{
		{name: "future", then: now.Add(72 * time.Hour), want: "en 3d"},
		{name: "past", then: now.Add(-2 * time.Hour), want: "hace 2h"},
		{name: "now", then: now, want: "en 0s"},
		{name: "zero", then: time.Time{}, want: "-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Relative(tc.then, now); got != tc.want {
				t.Fatalf("Relative = %q, want %q", got, tc.want)
			}
		})
	}
}
