package repository

import (
	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Package PackageRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Package: NewPackageRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
