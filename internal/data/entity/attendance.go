package entity

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's attendance row for one booking.
// Rows are created in bulk by roster initialization and never deleted
// by this service; their presence blocks booking deletion.
type AttendanceRecord struct {
	Base
	BookingID    uuid.UUID        `db:"booking_id"`
	StudentID    uuid.UUID        `db:"student_id"`
	Status       AttendanceStatus `db:"status"`
	CheckInTime  *time.Time       `db:"check_in_time"`
	CheckOutTime *time.Time       `db:"check_out_time"`
	Score        *float64         `db:"score"`
	Notes        string           `db:"notes"`
}
