package usecase

import (
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/cache"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Package PackageService
	User    UserService
}

func NewService(repo *repository.Repository, packageCache cache.PackageCache, config *utils.Config, logger *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, packageCache, logger),
		Package: NewPackageService(repo, packageCache, logger),
		User:    NewUserService(repo, logger),
	}
}
