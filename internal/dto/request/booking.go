package request

type CreateBookingRequest struct {
	CourseID       string   `json:"course_id" validate:"required,uuid4"`
	ActivityTypeID string   `json:"activity_type_id" validate:"required,uuid4"`
	InstructorID   string   `json:"instructor_id" validate:"required,uuid4"`
	LocationID     string   `json:"location_id" validate:"required,uuid4"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string   `json:"start_time" validate:"required,datetime=15:04"`
	EndTime        string   `json:"end_time" validate:"required,datetime=15:04"`
	MaxStudents    *int     `json:"max_students,omitempty" validate:"omitempty,min=1"`
	Notes          string   `json:"notes,omitempty"`
	GroupIDs       []string `json:"group_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

// UpdateBookingRequest carries partial-update semantics: nil fields
// are left unchanged. GroupIDs distinguishes omitted (nil, keep
// assignments) from supplied-empty (replace with none).
type UpdateBookingRequest struct {
	CourseID       *string   `json:"course_id,omitempty" validate:"omitempty,uuid4"`
	ActivityTypeID *string   `json:"activity_type_id,omitempty" validate:"omitempty,uuid4"`
	InstructorID   *string   `json:"instructor_id,omitempty" validate:"omitempty,uuid4"`
	LocationID     *string   `json:"location_id,omitempty" validate:"omitempty,uuid4"`
	Date           *string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime      *string   `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime        *string   `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	MaxStudents    *int      `json:"max_students,omitempty" validate:"omitempty,min=1"`
	Status         *string   `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes          *string   `json:"notes,omitempty"`
	GroupIDs       *[]string `json:"group_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

type ScanConflictsRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
