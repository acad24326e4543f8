package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== USER ROUTES ====================

	// POST /api/bookings - Create new booking
	r.Post("/api/bookings", bookingHandler.CreateBooking)

	// PUT /api/bookings/{id} - Propose an edit (stored as pending changes)
	r.Put("/api/bookings/{id}", bookingHandler.EditBooking)

	// PUT /api/bookings/{id}/cancel - Cancel own booking
	r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

	// GET /api/user/bookings - View booking history
	r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// GET /api/admin/bookings - List every booking
		r.Get("/", bookingHandler.GetAllBookings)

		// PUT /api/admin/bookings/{id}/status - Confirm / flip booking status
		r.Put("/{id}/status", bookingHandler.UpdateBookingStatus)
	})
}
