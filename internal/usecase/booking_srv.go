package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/cache"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	// Public endpoints
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	EditBooking(ctx context.Context, bookingID int64, req *request.EditBookingRequest) error
	CancelBooking(ctx context.Context, bookingID, userID int64) error
	GetUserBookings(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	UpdateBookingStatus(ctx context.Context, bookingID int64, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error)
	GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo  *repository.Repository
	cache cache.PackageCache
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, packageCache cache.PackageCache, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		cache: packageCache,
		log:   log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// All validation happens before the insert; the insert is the sole write.
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	bookingType := entity.BookingType(req.BookingType)
	if !bookingType.Valid() {
		return nil, fmt.Errorf("booking_type %s: %w", req.BookingType, entity.ErrInvalidBookingType)
	}

	startDate, err := time.Parse(entity.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date %q: %w", req.StartDate, entity.ErrInvalidDateRange)
	}

	var endDate *time.Time
	if req.EndDate != nil {
		end, err := time.Parse(entity.DateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end_date %q: %w", *req.EndDate, entity.ErrInvalidDateRange)
		}
		endDate = &end
	}

	if err := validateDateRange(bookingType, startDate, endDate); err != nil {
		return nil, err
	}

	// Type-conditional requirements
	if bookingType.RequiresPackage() && req.PackageID == nil {
		return nil, fmt.Errorf("package_id: %w", entity.ErrMissingField)
	}
	if bookingType == entity.BookingTypeItinerary && len(req.ItineraryDetails) == 0 {
		return nil, fmt.Errorf("itinerary_details: %w", entity.ErrMissingField)
	}
	if bookingType == entity.BookingTypeFlightHotel {
		if len(req.FlightDetails) == 0 {
			return nil, fmt.Errorf("flight_details: %w", entity.ErrMissingField)
		}
		if len(req.HotelDetails) == 0 {
			return nil, fmt.Errorf("hotel_details: %w", entity.ErrMissingField)
		}
	}

	exists, err := s.repo.User.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", req.UserID, entity.ErrUserNotFound)
	}

	var pkg *entity.TravelPackage
	var packageName *string
	if req.PackageID != nil {
		pkg, err = lookupPackage(ctx, s.repo.Package, s.cache, s.log, *req.PackageID)
		if err != nil {
			return nil, err
		}
		packageName = &pkg.Name
	}

	itinerary := request.ActivitiesToEntity(req.ItineraryDetails)

	// Price is always server-derived
	totalPrice := CalculatePrice(bookingType, req.Persons, startDate, endDate, pkg, itinerary)
	if totalPrice <= 0 {
		return nil, fmt.Errorf("computed total %.2f: %w", totalPrice, entity.ErrInvalidPrice)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:        utils.GenerateBookingRef(),
		UserID:           req.UserID,
		BookingType:      bookingType,
		PackageID:        req.PackageID,
		PackageName:      packageName,
		FlightDetails:    req.FlightDetails,
		HotelDetails:     req.HotelDetails,
		ItineraryDetails: itinerary,
		StartDate:        startDate,
		EndDate:          endDate,
		Persons:          req.Persons,
		TotalPrice:       totalPrice,
		Status:           entity.BookingStatusPending,
	}

	id, err := s.repo.Booking.Create(ctx, booking)
	if err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64("user_id", req.UserID),
			zap.String("booking_type", req.BookingType),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}
	booking.ID = id

	s.log.Info("Booking created",
		zap.Int64("booking_id", id),
		zap.String("reference", booking.Reference),
		zap.Int64("user_id", req.UserID),
		zap.String("booking_type", req.BookingType),
		zap.Float64("total_price", totalPrice),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) EditBooking(ctx context.Context, bookingID int64, req *request.EditBookingRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Edit booking validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}
	if errs := utils.ValidateStruct(req.Changes); len(errs) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	if req.Changes.TotalPrice != nil {
		s.log.Warn("Ignoring client-supplied total_price on edit",
			zap.Int64("booking_id", bookingID),
			zap.Float64("total_price", *req.Changes.TotalPrice),
		)
	}

	changes := req.Changes.ToEntity()
	if changes.IsEmpty() {
		return fmt.Errorf("no changes submitted: %w", entity.ErrMissingField)
	}

	booking, err := s.repo.Booking.FindByIDForUser(ctx, bookingID, req.UserID)
	if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %d: %w", bookingID, entity.ErrBookingNotFound)
	}
	if booking.Status == entity.BookingStatusCanceled {
		return fmt.Errorf("edit booking %d: %w", bookingID, entity.ErrBookingCanceled)
	}

	// Denormalize the package name into the proposal so confirmation never
	// has to trust a client-supplied name.
	if changes.PackageID != nil {
		pkg, err := lookupPackage(ctx, s.repo.Package, s.cache, s.log, *changes.PackageID)
		if err != nil {
			return err
		}
		changes.PackageName = &pkg.Name
	}

	// This is a proposal, not an application: only pending_changes and status
	// move here.
	if err := s.repo.Booking.SavePendingChanges(ctx, bookingID, changes); err != nil {
		return err
	}

	s.log.Info("Booking edit proposed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", req.UserID),
	)

	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	booking, err := s.repo.Booking.FindByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %d: %w", bookingID, entity.ErrBookingNotFound)
	}
	if booking.Status == entity.BookingStatusCanceled {
		return fmt.Errorf("cancel booking %d: %w", bookingID, entity.ErrBookingCanceled)
	}

	// pending_changes stays as-is on cancel; retained for audit until intent
	// to clear is confirmed.
	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCanceled); err != nil {
		return err
	}

	s.log.Info("Booking canceled",
		zap.Int64("booking_id", bookingID),
		zap.String("reference", booking.Reference),
		zap.Int64("user_id", userID),
	)

	return nil
}

// UpdateBookingStatus is the state-transition operator. The whole read-decide-
// write cycle runs inside one transaction holding a row lock, so concurrent
// confirmations of the same booking serialize at the storage layer.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, req *request.UpdateBookingStatusRequest) (*response.BookingStatusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	target := entity.BookingStatus(req.Status)
	if !target.Valid() {
		return nil, fmt.Errorf("status %s: %w", req.Status, entity.ErrInvalidStatus)
	}

	exists, err := s.repo.User.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", req.UserID, entity.ErrUserNotFound)
	}

	if req.Changes != nil && req.Changes.TotalPrice != nil {
		s.log.Warn("Ignoring client-supplied total_price on status update",
			zap.Int64("booking_id", bookingID),
			zap.Float64("total_price", *req.Changes.TotalPrice),
		)
	}
	fresh := req.Changes.ToEntity()

	changed := true
	updated, err := s.repo.Booking.UpdateWithLock(ctx, bookingID, func(b *entity.Booking) (bool, error) {
		// Idempotence: repeated requests for the held status commit without
		// touching the row or re-deriving price.
		if b.Status == target {
			changed = false
			return false, nil
		}

		// Canceled is terminal.
		if b.Status == entity.BookingStatusCanceled {
			return false, fmt.Errorf("booking %d: %w", bookingID, entity.ErrBookingCanceled)
		}

		if target != entity.BookingStatusConfirmed {
			// Plain status flip; pending_changes are left alone.
			b.Status = target
			return true, nil
		}

		// Confirmation: merge fresh over stored, apply, reprice.
		diff := MergeChanges(b.PendingChanges, fresh)

		if diff.PackageID != nil {
			pkg, err := lookupPackage(ctx, s.repo.Package, s.cache, s.log, *diff.PackageID)
			if err != nil {
				return false, err
			}
			diff.PackageName = &pkg.Name
		}

		if err := applyChanges(b, diff); err != nil {
			return false, err
		}
		if err := validateDateRange(b.BookingType, b.StartDate, b.EndDate); err != nil {
			return false, err
		}

		var pkg *entity.TravelPackage
		if b.PackageID != nil {
			found, err := lookupPackage(ctx, s.repo.Package, s.cache, s.log, *b.PackageID)
			if err != nil {
				return false, err
			}
			pkg = found
		}

		price := CalculatePrice(b.BookingType, b.Persons, b.StartDate, b.EndDate, pkg, b.ItineraryDetails)
		if price <= 0 {
			// Rolls the transaction back; the stored row stays untouched.
			return false, fmt.Errorf("confirm booking %d, computed total %.2f: %w", bookingID, price, entity.ErrInvalidPrice)
		}

		b.TotalPrice = price
		b.Status = entity.BookingStatusConfirmed
		b.PendingChanges = nil
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info("Booking status updated",
			zap.Int64("booking_id", bookingID),
			zap.String("status", string(target)),
			zap.Int64("admin_user_id", req.UserID),
			zap.Float64("total_price", updated.TotalPrice),
		)
	} else {
		s.log.Info("Booking status unchanged",
			zap.Int64("booking_id", bookingID),
			zap.String("status", string(target)),
		)
	}

	return &response.BookingStatusResponse{
		Booking: response.BookingToResponse(updated),
		Changed: changed,
	}, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get all bookings",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get all bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}
