package model

import (
	"reflect"
	"testing"
)

func TestParseSeatLabel(t *testing.T) {
	cases := []struct {
		in      string
		wantRow string
		wantNum int
		wantOK  bool
	}{
		{"A1", "A", 1, true},
		{"a12", "A", 12, true},
		{" j30 ", "J", 30, true},
		{"Z999", "Z", 999, true},
		{"A0", "", 0, false},
		{"A-1", "", 0, false},
		{"A", "", 0, false},
		{"", "", 0, false},
		{"1A", "", 0, false},
		{"AA1", "", 0, false},
		{"A1.5", "", 0, false},
	}
	for _, tc := range cases {
		row, num, ok := ParseSeatLabel(tc.in)
		if row != tc.wantRow || num != tc.wantNum || ok != tc.wantOK {
			t.Errorf("ParseSeatLabel(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tc.in, row, num, ok, tc.wantRow, tc.wantNum, tc.wantOK)
		}
	}
}

func TestScreenValidLayout(t *testing.T) {
	cases := []struct {
		name string
		s    Screen
		want bool
	}{
		{"ok", Screen{SeatRows: 10, SeatsPerRow: 12, Capacity: 120}, true},
		{"ok with vip", Screen{SeatRows: 5, SeatsPerRow: 8, Capacity: 40, VIPRows: []string{"A", "E"}}, true},
		{"max grid", Screen{SeatRows: 26, SeatsPerRow: 30, Capacity: 780}, true},
		{"zero rows", Screen{SeatRows: 0, SeatsPerRow: 10, Capacity: 0}, false},
		{"too many rows", Screen{SeatRows: 27, SeatsPerRow: 10, Capacity: 270}, false},
		{"too wide", Screen{SeatRows: 10, SeatsPerRow: 31, Capacity: 310}, false},
		{"capacity mismatch", Screen{SeatRows: 10, SeatsPerRow: 10, Capacity: 99}, false},
		{"vip row outside grid", Screen{SeatRows: 3, SeatsPerRow: 4, Capacity: 12, VIPRows: []string{"D"}}, false},
		{"vip not a letter", Screen{SeatRows: 3, SeatsPerRow: 4, Capacity: 12, VIPRows: []string{"1"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.ValidLayout(); got != tc.want {
				t.Errorf("ValidLayout() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScreenContainsSeat(t *testing.T) {
	s := Screen{SeatRows: 5, SeatsPerRow: 8, Capacity: 40}
	for _, label := range []string{"A1", "a8", "E1", "E8", "C4"} {
		if !s.ContainsSeat(label) {
			t.Errorf("ContainsSeat(%q) = false, want true", label)
		}
	}
	for _, label := range []string{"F1", "A9", "E0", "Z1", "", "11"} {
		if s.ContainsSeat(label) {
			t.Errorf("ContainsSeat(%q) = true, want false", label)
		}
	}
}

func TestScreenSeatLabels(t *testing.T) {
	s := Screen{SeatRows: 2, SeatsPerRow: 3, Capacity: 6}
	want := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	if got := s.SeatLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("SeatLabels() = %v, want %v", got, want)
	}
}

func TestNormalizeSeatLabels(t *testing.T) {
	in := []string{" a1", "A1", "b2 ", "", "  ", "c3", "B2"}
	want := []string{"A1", "B2", "C3"}
	if got := NormalizeSeatLabels(in); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSeatLabels(%v) = %v, want %v", in, got, want)
	}
}

func TestScreenIsVIPRow(t *testing.T) {
	s := Screen{SeatRows: 5, SeatsPerRow: 8, Capacity: 40, VIPRows: []string{"A", "B"}}
	if !s.IsVIPRow("a") || !s.IsVIPRow(" B ") {
		t.Errorf("VIP rows not matched case-insensitively")
	}
	if s.IsVIPRow("C") {
		t.Errorf("IsVIPRow(C) = true, want false")
	}
}
