package entity

import (
	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusInactive AssignmentStatus = "inactive"
)

// GroupAssignment links a booking to one enrollment group. At most one
// active row may exist per (booking, group) pair.
type GroupAssignment struct {
	BaseSimple
	BookingID uuid.UUID        `db:"booking_id"`
	GroupID   uuid.UUID        `db:"group_id"`
	Status    AssignmentStatus `db:"status"`
}
