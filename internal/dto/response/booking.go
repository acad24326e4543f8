package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type BookingResponse struct {
	ID               int64                  `json:"id"`
	Reference        string                 `json:"reference"`
	UserID           int64                  `json:"user_id"`
	BookingType      entity.BookingType     `json:"booking_type"`
	PackageID        *int64                 `json:"package_id,omitempty"`
	PackageName      *string                `json:"package_name,omitempty"`
	FlightDetails    map[string]any         `json:"flight_details,omitempty"`
	HotelDetails     map[string]any         `json:"hotel_details,omitempty"`
	ItineraryDetails []entity.Activity      `json:"itinerary_details,omitempty"`
	StartDate        string                 `json:"start_date"`
	EndDate          *string                `json:"end_date,omitempty"`
	Persons          int                    `json:"persons"`
	TotalPrice       float64                `json:"total_price"`
	Status           entity.BookingStatus   `json:"status"`
	PendingChanges   *entity.BookingChanges `json:"pending_changes,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// BookingStatusResponse reports a transition outcome; Changed is false when
// the booking already held the requested status.
type BookingStatusResponse struct {
	Booking BookingResponse `json:"booking"`
	Changed bool            `json:"changed"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	var endDate *string
	if b.EndDate != nil {
		formatted := b.EndDate.Format(entity.DateLayout)
		endDate = &formatted
	}

	return BookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		UserID:           b.UserID,
		BookingType:      b.BookingType,
		PackageID:        b.PackageID,
		PackageName:      b.PackageName,
		FlightDetails:    b.FlightDetails,
		HotelDetails:     b.HotelDetails,
		ItineraryDetails: b.ItineraryDetails,
		StartDate:        b.StartDate.Format(entity.DateLayout),
		EndDate:          endDate,
		Persons:          b.Persons,
		TotalPrice:       b.TotalPrice,
		Status:           b.Status,
		PendingChanges:   b.PendingChanges,
		CreatedAt:        b.CreatedAt,
	}
}
