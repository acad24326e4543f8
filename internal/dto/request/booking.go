package request

import (
	"travel-booking/internal/data/entity"
)

type ActivityRequest struct {
	Name     string  `json:"name" validate:"required"`
	Duration string  `json:"duration"`
	Price    float64 `json:"price" validate:"min=0"`
}

type CreateBookingRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	BookingType string `json:"booking_type" validate:"required,oneof=package flight_hotel itinerary"`
	PackageID   *int64 `json:"package_id,omitempty"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	// nullable for one-way flight bookings
	EndDate          *string           `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Persons          int               `json:"persons" validate:"required,gt=0"`
	FlightDetails    map[string]any    `json:"flight_details,omitempty"`
	HotelDetails     map[string]any    `json:"hotel_details,omitempty"`
	ItineraryDetails []ActivityRequest `json:"itinerary_details,omitempty" validate:"omitempty,dive"`
}

// BookingChangesRequest is the typed change document clients submit on edit
// and admins may supplement on confirmation. Absent fields propose no change.
// TotalPrice is accepted for wire compatibility but never applied; price is
// always derived server-side.
type BookingChangesRequest struct {
	PackageID        *int64            `json:"package_id,omitempty"`
	StartDate        *string           `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate          *string           `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Persons          *int              `json:"persons,omitempty" validate:"omitempty,gt=0"`
	FlightDetails    map[string]any    `json:"flight_details,omitempty"`
	HotelDetails     map[string]any    `json:"hotel_details,omitempty"`
	ItineraryDetails []ActivityRequest `json:"itinerary_details,omitempty" validate:"omitempty,dive"`
	TotalPrice       *float64          `json:"total_price,omitempty"`
}

// ToEntity converts the wire document, dropping the price override.
func (r *BookingChangesRequest) ToEntity() *entity.BookingChanges {
	if r == nil {
		return nil
	}
	return &entity.BookingChanges{
		PackageID:        r.PackageID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Persons:          r.Persons,
		FlightDetails:    r.FlightDetails,
		HotelDetails:     r.HotelDetails,
		ItineraryDetails: ActivitiesToEntity(r.ItineraryDetails),
	}
}

type EditBookingRequest struct {
	UserID  int64                  `json:"user_id" validate:"required,gt=0"`
	Changes *BookingChangesRequest `json:"changes" validate:"required"`
}

type CancelBookingRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type UpdateBookingStatusRequest struct {
	UserID  int64                  `json:"user_id" validate:"required,gt=0"`
	Status  string                 `json:"status" validate:"required,oneof=pending confirmed canceled"`
	Changes *BookingChangesRequest `json:"changes,omitempty"`
}

func ActivitiesToEntity(activities []ActivityRequest) []entity.Activity {
	if activities == nil {
		return nil
	}
	result := make([]entity.Activity, len(activities))
	for i, a := range activities {
		result[i] = entity.Activity{
			Name:     a.Name,
			Duration: a.Duration,
			Price:    a.Price,
		}
	}
	return result
}
