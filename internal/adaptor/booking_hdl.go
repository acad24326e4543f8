package adaptor

import (
	"encoding/json"
	"net/http"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// bookingIDParam parses the {id} path segment, 0 when absent or non-numeric.
func bookingIDParam(r *http.Request) int64 {
	return utils.ParseInt64(chi.URLParam(r, "id"))
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// EditBooking handles PUT /api/bookings/{id}
func (h *BookingHandler) EditBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := bookingIDParam(r)
	if bookingID <= 0 {
		utils.ResponseBadRequest(w, "Booking ID must be numeric", nil)
		return
	}

	var req request.EditBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.EditBooking(r.Context(), bookingID, &req); err != nil {
		handleServiceError(w, h.log, err, "edit booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := bookingIDParam(r)
	if bookingID <= 0 {
		utils.ResponseBadRequest(w, "Booking ID must be numeric", nil)
		return
	}

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.UserID <= 0 {
		utils.ResponseBadRequest(w, "user_id is required", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), bookingID, req.UserID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetUserBookings handles GET /api/user/bookings?user_id=
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userID := utils.ParseInt64(query.Get("user_id"))
	if userID <= 0 {
		utils.ResponseBadRequest(w, "user_id is required", nil)
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ==================== ADMIN METHODS ====================

// UpdateBookingStatus handles PUT /api/admin/bookings/{id}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := bookingIDParam(r)
	if bookingID <= 0 {
		utils.ResponseBadRequest(w, "Booking ID must be numeric", nil)
		return
	}

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.UpdateBookingStatus(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	message := "success"
	if !result.Changed {
		message = "unchanged"
	}

	utils.ResponseSuccess(w, message, result)
}

// GetAllBookings handles GET /api/admin/bookings
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetAllBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get all bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
