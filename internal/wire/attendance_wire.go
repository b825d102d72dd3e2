package wire

import (
	"training-scheduler/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAttendance(r chi.Router, attendanceHandler *adaptor.AttendanceHandler) {
	// POST /api/bookings/{id}/roster - Materialize attendance roster once
	r.Post("/api/bookings/{id}/roster", attendanceHandler.InitializeRoster)

	// GET /api/bookings/{id}/roster - Read the roster
	r.Get("/api/bookings/{id}/roster", attendanceHandler.GetRoster)

	r.Route("/api/attendance", func(r chi.Router) {
		// PUT /api/attendance/bulk - Best-effort batch of updates
		r.Put("/bulk", attendanceHandler.BulkUpdateAttendance)

		// PUT /api/attendance/{id} - Update a single attendance record
		r.Put("/{id}", attendanceHandler.UpdateAttendance)
	})
}
