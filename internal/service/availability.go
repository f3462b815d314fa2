// Package service holds the domain logic between the HTTP handlers and
// the repositories: seat availability, the booking lifecycle and the
// payment refund state machine.  Services depend on small store
// interfaces rather than concrete repositories so tests can substitute
// in-memory fixtures.
package service

import (
	"context"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
)

// SeatClaimSource yields the seat labels currently claimed by live
// bookings for one showtime slot.  *repository.BookingRepo satisfies
// it.
type SeatClaimSource interface {
	ClaimedSeats(ctx context.Context, screenID uint64, showDate, showTime string) ([]string, error)
}

// AvailabilityIndex answers "which seats are taken for showtime X" and
// "is this seat set free".  It is a read model over the claim rows; the
// unique key on those rows is what actually prevents double booking, so
// the index can stay a plain read-then-report check.
type AvailabilityIndex struct {
	claims SeatClaimSource
}

// NewAvailabilityIndex constructs an AvailabilityIndex over the given
// claim source.
func NewAvailabilityIndex(claims SeatClaimSource) *AvailabilityIndex {
	return &AvailabilityIndex{claims: claims}
}

// BookedSeats returns the union of seat labels held by pending or
// confirmed bookings for the slot.  Duplicates are absorbed; ordering
// follows the store (sorted by label for the MySQL implementation).
func (a *AvailabilityIndex) BookedSeats(ctx context.Context, screenID uint64, showDate, showTime string) ([]string, error) {
	labels, err := a.claims.ClaimedSeats(ctx, screenID, showDate, showTime)
	if err != nil {
		return nil, err
	}
	return model.NormalizeSeatLabels(labels), nil
}

// IsAvailable reports whether none of the requested seats intersect the
// booked set.  The second return value lists the conflicting labels so
// callers can show the customer exactly which seats to re-pick.
func (a *AvailabilityIndex) IsAvailable(ctx context.Context, screenID uint64, showDate, showTime string, requested []string) (bool, []string, error) {
	booked, err := a.BookedSeats(ctx, screenID, showDate, showTime)
	if err != nil {
		return false, nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, l := range booked {
		taken[l] = struct{}{}
	}
	conflicts := make([]string, 0)
	for _, l := range model.NormalizeSeatLabels(requested) {
		if _, ok := taken[l]; ok {
			conflicts = append(conflicts, l)
		}
	}
	return len(conflicts) == 0, conflicts, nil
}
