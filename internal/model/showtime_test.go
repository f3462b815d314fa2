package model

import (
	"testing"
	"time"
)

func TestShowtimeStartsAt(t *testing.T) {
	st := Showtime{ShowDate: "2026-09-05", ShowTime: "19:30"}
	got, err := st.StartsAt()
	if err != nil {
		t.Fatalf("StartsAt failed: %v", err)
	}
	want := time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", got, want)
	}

	bad := Showtime{ShowDate: "05-09-2026", ShowTime: "7pm"}
	if _, err := bad.StartsAt(); err == nil {
		t.Errorf("expected parse error for malformed date/time")
	}
}

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"same start", 0, true},
		{"one minute later", time.Minute, true},
		{"149 minutes later", 149 * time.Minute, true},
		{"exactly 150 minutes later", 150 * time.Minute, false},
		{"151 minutes later", 151 * time.Minute, false},
		{"149 minutes earlier", -149 * time.Minute, true},
		{"150 minutes earlier", -150 * time.Minute, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WindowsOverlap(base, base.Add(tc.offset)); got != tc.want {
				t.Errorf("WindowsOverlap(base, base%+v) = %v, want %v", tc.offset, got, tc.want)
			}
		})
	}
}
