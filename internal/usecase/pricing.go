package usecase

import (
	"time"

	"travel-booking/internal/data/entity"
)

// Fixed flight+hotel rates, all per person.
const (
	flightHotelBaseRate = 100.0 // per night
	flightFlatFee       = 50.0  // one-off
	hotelNightRate      = 30.0  // per night
)

// Nights counts billable nights inclusive of both endpoints, minimum one.
// A nil end date (one-way flight) bills a single night.
func Nights(start time.Time, end *time.Time) int {
	if end == nil {
		return 1
	}

	days := int(end.Sub(start).Hours() / 24)
	nights := days + 1
	if nights < 1 {
		return 1
	}
	return nights
}

// CalculatePrice computes the booking total from the full booking state.
// Package-priced types without a catalog package yield 0, which callers must
// reject (totals must be positive).
func CalculatePrice(
	bookingType entity.BookingType,
	persons int,
	start time.Time,
	end *time.Time,
	pkg *entity.TravelPackage,
	itinerary []entity.Activity,
) float64 {
	nights := Nights(start, end)
	p := float64(persons)
	n := float64(nights)

	switch bookingType {
	case entity.BookingTypeFlightHotel:
		return p*n*flightHotelBaseRate + p*flightFlatFee + p*n*hotelNightRate

	case entity.BookingTypePackage:
		if pkg == nil {
			return 0
		}
		return pkg.Price * p * n

	case entity.BookingTypeItinerary:
		if pkg == nil {
			return 0
		}
		total := pkg.Price * p * n
		for _, activity := range itinerary {
			total += activity.Price * p
		}
		return total
	}

	return 0
}
