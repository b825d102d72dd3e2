package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusScheduled, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// ConflictDimension names one of the two independently double-booked
// resources of a booking.
type ConflictDimension string

const (
	DimensionInstructor ConflictDimension = "instructor"
	DimensionLocation   ConflictDimension = "location"
)

// Booking is a single scheduled training session: one instructor, one
// location, one [StartTime, EndTime) interval on SessionDate.
type Booking struct {
	Base
	CourseID       uuid.UUID     `db:"course_id"`
	ActivityTypeID uuid.UUID     `db:"activity_type_id"`
	InstructorID   uuid.UUID     `db:"instructor_id"`
	LocationID     uuid.UUID     `db:"location_id"`
	SessionDate    time.Time     `db:"session_date"`
	StartTime      time.Time     `db:"start_time"`
	EndTime        time.Time     `db:"end_time"`
	MaxStudents    *int          `db:"max_students"`
	EnrolledCount  int           `db:"enrolled_count"`
	Status         BookingStatus `db:"status"`
	Notes          string        `db:"notes"`
}

// Active reports whether the booking participates in conflict checks.
// Cancelled bookings release their time slot.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}
