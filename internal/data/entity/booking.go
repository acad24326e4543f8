package entity

import (
	"time"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled:
		return true
	}
	return false
}

type BookingType string

const (
	BookingTypePackage     BookingType = "package"
	BookingTypeFlightHotel BookingType = "flight_hotel"
	BookingTypeItinerary   BookingType = "itinerary"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypePackage, BookingTypeFlightHotel, BookingTypeItinerary:
		return true
	}
	return false
}

// RequiresPackage reports whether bookings of this type are priced off a
// catalog package.
func (t BookingType) RequiresPackage() bool {
	return t == BookingTypePackage || t == BookingTypeItinerary
}

// Activity is one entry of an itinerary, ordered as submitted.
type Activity struct {
	Name     string  `json:"name"`
	Duration string  `json:"duration"`
	Price    float64 `json:"price"`
}

type Booking struct {
	Base
	Reference        string          `db:"reference"`
	UserID           int64           `db:"user_id"`
	BookingType      BookingType     `db:"booking_type"`
	PackageID        *int64          `db:"package_id"`
	PackageName      *string         `db:"package_name"`
	FlightDetails    map[string]any  `db:"flight_details"`
	HotelDetails     map[string]any  `db:"hotel_details"`
	ItineraryDetails []Activity      `db:"itinerary_details"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          *time.Time      `db:"end_date"`
	Persons          int             `db:"persons"`
	TotalPrice       float64         `db:"total_price"`
	Status           BookingStatus   `db:"status"`
	PendingChanges   *BookingChanges `db:"pending_changes"`
}

// BookingChanges is a proposed partial update awaiting admin confirmation.
// Scalar fields are optional via pointers; the detail documents are partial
// and deep-merged into the stored documents on confirmation, while
// ItineraryDetails replaces the stored list wholesale (it is ordered).
type BookingChanges struct {
	PackageID        *int64         `json:"package_id,omitempty"`
	PackageName      *string        `json:"package_name,omitempty"`
	StartDate        *string        `json:"start_date,omitempty"`
	EndDate          *string        `json:"end_date,omitempty"`
	Persons          *int           `json:"persons,omitempty"`
	FlightDetails    map[string]any `json:"flight_details,omitempty"`
	HotelDetails     map[string]any `json:"hotel_details,omitempty"`
	ItineraryDetails []Activity     `json:"itinerary_details,omitempty"`
}

// IsEmpty reports whether the document proposes no change at all.
func (c *BookingChanges) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.PackageID == nil && c.PackageName == nil &&
		c.StartDate == nil && c.EndDate == nil && c.Persons == nil &&
		len(c.FlightDetails) == 0 && len(c.HotelDetails) == 0 &&
		c.ItineraryDetails == nil
}
