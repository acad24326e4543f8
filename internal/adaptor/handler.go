package adaptor

import (
	"errors"
	"net/http"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Package *PackageHandler
	User    *UserHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		Package: NewPackageHandler(service.Package, log),
		User:    NewUserHandler(service.User, log),
	}
}

// handleServiceError maps domain errors to HTTP responses. Unexpected errors
// never leak internals past a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrPackageNotFound),
		errors.Is(err, entity.ErrBookingNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrBookingCanceled):
		log.Warn(operation+" failed - booking canceled", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, entity.ErrUserExists):
		log.Warn(operation+" failed - duplicate", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidBookingType),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidDateRange),
		errors.Is(err, entity.ErrInvalidPrice):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
