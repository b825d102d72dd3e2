package response

// ConflictEntry is one overlapping pair found by the diagnostic scan.
type ConflictEntry struct {
	Dimension       string `json:"dimension"`
	ResourceID      string `json:"resource_id"`
	Date            string `json:"date"`
	FirstBookingID  string `json:"first_booking_id"`
	FirstInterval   string `json:"first_interval"`
	SecondBookingID string `json:"second_booking_id"`
	SecondInterval  string `json:"second_interval"`
}

type ConflictReport struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Total     int             `json:"total"`
	Conflicts []ConflictEntry `json:"conflicts"`
}
