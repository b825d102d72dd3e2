package usecase

import (
	"context"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/internal/data/repository"

	"github.com/google/uuid"
)

// Overlaps reports whether two half-open intervals [s1,e1) and
// [s2,e2) on the same date collide: s1 < e2 AND s2 < e1. Back-to-back
// intervals (e1 == s2) do not conflict; this boundary is deliberate.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ConflictDetector answers whether a candidate interval collides with
// an existing non-cancelled booking on one resource dimension.
// Interval validity (start < end) is checked by callers before any
// detection runs.
type ConflictDetector struct {
	bookings repository.BookingRepository
}

func NewConflictDetector(bookings repository.BookingRepository) *ConflictDetector {
	return &ConflictDetector{bookings: bookings}
}

// HasConflict returns the first colliding booking, or nil when the
// slot is free. excludeID removes the booking being updated from the
// comparison set.
func (d *ConflictDetector) HasConflict(ctx context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date, start, end time.Time, excludeID *uuid.UUID) (*entity.Booking, error) {
	colliding, err := d.bookings.FindOverlapping(ctx, dimension, resourceID, date, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	if len(colliding) == 0 {
		return nil, nil
	}

	return colliding[0], nil
}
