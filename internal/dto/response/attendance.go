package response

import (
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/utils"
)

type AttendanceResponse struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	StudentID    string    `json:"student_id"`
	Status       string    `json:"status"`
	CheckInTime  *string   `json:"check_in_time,omitempty"`
	CheckOutTime *string   `json:"check_out_time,omitempty"`
	Score        *float64  `json:"score,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func AttendanceToResponse(record *entity.AttendanceRecord) *AttendanceResponse {
	resp := &AttendanceResponse{
		ID:        record.ID.String(),
		BookingID: record.BookingID.String(),
		StudentID: record.StudentID.String(),
		Status:    string(record.Status),
		Score:     record.Score,
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	if record.CheckInTime != nil {
		checkIn := utils.FormatTimeOfDay(*record.CheckInTime)
		resp.CheckInTime = &checkIn
	}
	if record.CheckOutTime != nil {
		checkOut := utils.FormatTimeOfDay(*record.CheckOutTime)
		resp.CheckOutTime = &checkOut
	}

	return resp
}

// BulkFailure reports one batch item that could not be applied.
type BulkFailure struct {
	AttendanceID string `json:"attendance_id"`
	Reason       string `json:"reason"`
}

// BulkUpdateResult separates applied items from failed ones. Items
// are applied best-effort: one failure never rolls back the rest.
type BulkUpdateResult struct {
	Succeeded []*AttendanceResponse `json:"succeeded"`
	Failed    []BulkFailure         `json:"failed"`
}
