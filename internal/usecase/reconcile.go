package usecase

import (
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
)

// MergeChanges builds the effective diff for a confirmation: a shallow union
// of the stored pending document and the freshly supplied one, where fresh
// values win per field. Neither input is mutated.
func MergeChanges(stored, fresh *entity.BookingChanges) *entity.BookingChanges {
	merged := &entity.BookingChanges{}

	for _, c := range []*entity.BookingChanges{stored, fresh} {
		if c == nil {
			continue
		}
		if c.PackageID != nil {
			merged.PackageID = c.PackageID
			// a new package invalidates any previously resolved name
			merged.PackageName = c.PackageName
		}
		if c.StartDate != nil {
			merged.StartDate = c.StartDate
		}
		if c.EndDate != nil {
			merged.EndDate = c.EndDate
		}
		if c.Persons != nil {
			merged.Persons = c.Persons
		}
		if c.FlightDetails != nil {
			merged.FlightDetails = c.FlightDetails
		}
		if c.HotelDetails != nil {
			merged.HotelDetails = c.HotelDetails
		}
		if c.ItineraryDetails != nil {
			merged.ItineraryDetails = c.ItineraryDetails
		}
	}

	return merged
}

// mergeDocs deep-merges patch into base, preserving base keys the patch does
// not mention. Nested objects merge recursively; anything else overwrites.
// Returns a fresh map, never the inputs.
func mergeDocs(base, patch map[string]any) map[string]any {
	if patch == nil && base == nil {
		return nil
	}

	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		patchSub, patchOk := v.(map[string]any)
		baseSub, baseOk := out[k].(map[string]any)
		if patchOk && baseOk {
			out[k] = mergeDocs(baseSub, patchSub)
			continue
		}
		out[k] = v
	}

	return out
}

// applyChanges mutates the booking in place from a merged diff: scalars
// overwrite, detail documents deep-merge, the itinerary list replaces
// wholesale. The caller is responsible for resolving PackageName beforehand
// and for recomputing the price afterwards.
func applyChanges(b *entity.Booking, diff *entity.BookingChanges) error {
	if diff == nil {
		return nil
	}

	if diff.StartDate != nil {
		start, err := time.Parse(entity.DateLayout, *diff.StartDate)
		if err != nil {
			return fmt.Errorf("start_date %q: %w", *diff.StartDate, entity.ErrInvalidDateRange)
		}
		b.StartDate = start
	}

	if diff.EndDate != nil {
		end, err := time.Parse(entity.DateLayout, *diff.EndDate)
		if err != nil {
			return fmt.Errorf("end_date %q: %w", *diff.EndDate, entity.ErrInvalidDateRange)
		}
		b.EndDate = &end
	}

	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("end before start: %w", entity.ErrInvalidDateRange)
	}

	if diff.Persons != nil {
		b.Persons = *diff.Persons
	}

	if diff.PackageID != nil {
		b.PackageID = diff.PackageID
		b.PackageName = diff.PackageName
	}

	if diff.FlightDetails != nil {
		b.FlightDetails = mergeDocs(b.FlightDetails, diff.FlightDetails)
	}
	if diff.HotelDetails != nil {
		b.HotelDetails = mergeDocs(b.HotelDetails, diff.HotelDetails)
	}
	if diff.ItineraryDetails != nil {
		b.ItineraryDetails = diff.ItineraryDetails
	}

	return nil
}

// validateDateRange enforces per-type date rules: an end date is required for
// package and itinerary bookings, optional for flight_hotel (one-way), and
// must not precede the start when present.
func validateDateRange(bookingType entity.BookingType, start time.Time, end *time.Time) error {
	if end == nil {
		if bookingType == entity.BookingTypeFlightHotel {
			return nil
		}
		return fmt.Errorf("end_date: %w", entity.ErrMissingField)
	}

	if end.Before(start) {
		return fmt.Errorf("end %s before start %s: %w",
			end.Format(entity.DateLayout), start.Format(entity.DateLayout), entity.ErrInvalidDateRange)
	}

	return nil
}
