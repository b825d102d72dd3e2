package response

// RosterSummary reports the result of one-time roster initialization.
type RosterSummary struct {
	BookingID  string   `json:"booking_id"`
	Created    int      `json:"created"`
	StudentIDs []string `json:"student_ids"`
}
