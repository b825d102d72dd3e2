package response

import (
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/utils"
)

type BookingResponse struct {
	ID             string    `json:"id"`
	CourseID       string    `json:"course_id"`
	ActivityTypeID string    `json:"activity_type_id"`
	InstructorID   string    `json:"instructor_id"`
	LocationID     string    `json:"location_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	MaxStudents    *int      `json:"max_students,omitempty"`
	EnrolledCount  int       `json:"enrolled_count"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	GroupIDs       []string  `json:"group_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking, groupIDs []string) *BookingResponse {
	if groupIDs == nil {
		groupIDs = []string{}
	}

	return &BookingResponse{
		ID:             booking.ID.String(),
		CourseID:       booking.CourseID.String(),
		ActivityTypeID: booking.ActivityTypeID.String(),
		InstructorID:   booking.InstructorID.String(),
		LocationID:     booking.LocationID.String(),
		Date:           utils.FormatDate(booking.SessionDate),
		StartTime:      utils.FormatTimeOfDay(booking.StartTime),
		EndTime:        utils.FormatTimeOfDay(booking.EndTime),
		MaxStudents:    booking.MaxStudents,
		EnrolledCount:  booking.EnrolledCount,
		Status:         string(booking.Status),
		Notes:          booking.Notes,
		GroupIDs:       groupIDs,
		CreatedAt:      booking.CreatedAt,
		UpdatedAt:      booking.UpdatedAt,
	}
}
