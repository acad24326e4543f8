package entity

// TravelPackage is a catalog entry bookings are priced against.
// Price is per person per night.
type TravelPackage struct {
	Base
	Name        string  `db:"name" json:"name"`
	Destination string  `db:"destination" json:"destination"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
}
