package wire

import (
	"training-scheduler/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Schedule a new training session
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings/conflicts - Report overlaps in a date range
		r.Get("/conflicts", bookingHandler.ScanConflicts)

		// GET /api/bookings/{id} - Booking details with assigned groups
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id} - Partial update, re-checks moved slots
		r.Put("/{id}", bookingHandler.UpdateBooking)

		// DELETE /api/bookings/{id} - Remove a booking without attendance
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
