package request

// UpdateAttendanceRequest carries partial-update semantics: nil
// fields are left unchanged.
type UpdateAttendanceRequest struct {
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=present absent late excused"`
	CheckInTime  *string  `json:"check_in_time,omitempty" validate:"omitempty,datetime=15:04"`
	CheckOutTime *string  `json:"check_out_time,omitempty" validate:"omitempty,datetime=15:04"`
	Score        *float64 `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Notes        *string  `json:"notes,omitempty"`
}

type BulkAttendanceItem struct {
	AttendanceID string `json:"attendance_id" validate:"required,uuid4"`
	UpdateAttendanceRequest
}

type BulkUpdateAttendanceRequest struct {
	Items []BulkAttendanceItem `json:"items" validate:"required,min=1,dive"`
}
