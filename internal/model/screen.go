package model

import (
	"strconv"
	"strings"
	"time"
)

// Layout bounds for a screen.  Rows are addressed by single letters
// (A..Z), so a screen can never have more than 26 rows.
const (
	MaxScreenRows    = 26
	MaxSeatsPerRow   = 30
	MaxSeatsPerOrder = 10
)

// Screen describes an auditorium and its fixed seat grid.  Capacity is
// always SeatRows * SeatsPerRow; partial layouts are not supported.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique screen name (e.g. "Screen 1", "IMAX").
//  SeatRows    – number of rows, 1..26.
//  SeatsPerRow – seats in every row, 1..30.
//  VIPRows     – row letters priced/marked as VIP, subset of the layout.
//  Capacity    – SeatRows * SeatsPerRow.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Screen struct {
	ID          uint64    // screens.id
	Name        string    // screens.name
	SeatRows    uint32    // screens.seat_rows
	SeatsPerRow uint32    // screens.seats_per_row
	VIPRows     []string  // screens.vip_rows (CSV of row letters)
	Capacity    uint32    // screens.capacity
	CreatedAt   time.Time // screens.created_at
	UpdatedAt   time.Time // screens.updated_at
}

// ValidLayout reports whether the screen's grid dimensions are inside
// bounds, the capacity matches the row/seat product and every VIP row
// exists in the grid.
func (s *Screen) ValidLayout() bool {
	if s.SeatRows < 1 || s.SeatRows > MaxScreenRows {
		return false
	}
	if s.SeatsPerRow < 1 || s.SeatsPerRow > MaxSeatsPerRow {
		return false
	}
	if s.Capacity != s.SeatRows*s.SeatsPerRow {
		return false
	}
	for _, r := range s.VIPRows {
		idx, ok := rowLetterToIndex(r)
		if !ok || uint32(idx) >= s.SeatRows {
			return false
		}
	}
	return true
}

// ContainsSeat reports whether the seat label falls inside this
// screen's grid.
func (s *Screen) ContainsSeat(label string) bool {
	row, num, ok := ParseSeatLabel(label)
	if !ok {
		return false
	}
	idx, ok := rowLetterToIndex(row)
	if !ok {
		return false
	}
	return uint32(idx) < s.SeatRows && uint32(num) <= s.SeatsPerRow
}

// IsVIPRow reports whether the given row letter is marked VIP.
func (s *Screen) IsVIPRow(row string) bool {
	row = strings.ToUpper(strings.TrimSpace(row))
	for _, r := range s.VIPRows {
		if strings.EqualFold(r, row) {
			return true
		}
	}
	return false
}

// SeatLabels enumerates every label in the grid in row-major order
// (A1, A2, ..., B1, ...).
func (s *Screen) SeatLabels() []string {
	labels := make([]string, 0, s.Capacity)
	for r := uint32(0); r < s.SeatRows; r++ {
		letter := string(rune('A' + r))
		for n := uint32(1); n <= s.SeatsPerRow; n++ {
			labels = append(labels, letter+strconv.FormatUint(uint64(n), 10))
		}
	}
	return labels
}

// ParseSeatLabel splits a label like "A12" into its row letter and seat
// number.  Labels are a single ASCII letter followed by a positive
// number; anything else is rejected.
func ParseSeatLabel(label string) (row string, num int, ok bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return "", 0, false
	}
	ch := label[0]
	if ch < 'A' || ch > 'Z' {
		return "", 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return string(ch), n, true
}

// NormalizeSeatLabels upper-cases, trims and de-duplicates a seat label
// list while preserving the caller's order.  Invalid labels are kept so
// that validation against the screen layout can report them.
func NormalizeSeatLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// rowLetterToIndex converts a single row letter (A..Z) into its
// zero-based index.
func rowLetterToIndex(row string) (int, bool) {
	row = strings.ToUpper(strings.TrimSpace(row))
	if len(row) != 1 || row[0] < 'A' || row[0] > 'Z' {
		return -1, false
	}
	return int(row[0] - 'A'), true
}
