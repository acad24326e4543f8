package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type PackageResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func PackageToResponse(pkg *entity.TravelPackage) PackageResponse {
	return PackageResponse{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Destination: pkg.Destination,
		Description: pkg.Description,
		Price:       pkg.Price,
		CreatedAt:   pkg.CreatedAt,
	}
}
