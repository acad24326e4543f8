package usecase

import (
	"context"
	"testing"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func float64Ptr(f float64) *float64 { return &f }

type bookingMocks struct {
	booking *MockBookingRepository
	pkg     *MockPackageRepository
	user    *MockUserRepository
}

func newBookingService(t *testing.T) (BookingService, *bookingMocks) {
	t.Helper()

	m := &bookingMocks{
		booking: &MockBookingRepository{},
		pkg:     &MockPackageRepository{},
		user:    &MockUserRepository{},
	}

	repo := &repository.Repository{
		Booking: m.booking,
		Package: m.pkg,
		User:    m.user,
	}

	return NewBookingService(repo, nil, zap.NewNop()), m
}

func TestCreateBooking_PackagePricedAtCreation(t *testing.T) {
	svc, m := newBookingService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Price: 100}
	pkg.ID = 7

	m.user.On("ExistsByID", mock.Anything, int64(42)).Return(true, nil)
	m.pkg.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	m.booking.On("Create", mock.Anything, mock.Anything).Return(int64(11), nil)

	resp, err := svc.CreateBooking(context.Background(), &request.CreateBookingRequest{
		UserID:      42,
		BookingType: "package",
		PackageID:   int64Ptr(7),
		StartDate:   "2024-03-01",
		EndDate:     strPtr("2024-03-03"),
		Persons:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, 600.0, resp.TotalPrice) // 100 * 2 persons * 3 nights
	assert.Equal(t, entity.BookingStatusPending, resp.Status)
	require.NotNil(t, resp.PackageName)
	assert.Equal(t, "Bali Getaway", *resp.PackageName)
	assert.NotEmpty(t, resp.Reference)
}

func TestCreateBooking_UserNotFound(t *testing.T) {
	svc, m := newBookingService(t)

	m.user.On("ExistsByID", mock.Anything, int64(99)).Return(false, nil)

	_, err := svc.CreateBooking(context.Background(), &request.CreateBookingRequest{
		UserID:        99,
		BookingType:   "flight_hotel",
		StartDate:     "2024-03-01",
		Persons:       1,
		FlightDetails: map[string]any{"airline": "SkyWays"},
		HotelDetails:  map[string]any{"name": "Grand Hotel"},
	})

	assert.ErrorIs(t, err, entity.ErrUserNotFound)
	m.booking.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_PackageTypeRequiresPackageID(t *testing.T) {
	svc, m := newBookingService(t)

	_, err := svc.CreateBooking(context.Background(), &request.CreateBookingRequest{
		UserID:      42,
		BookingType: "package",
		StartDate:   "2024-03-01",
		EndDate:     strPtr("2024-03-03"),
		Persons:     2,
	})

	assert.ErrorIs(t, err, entity.ErrMissingField)
	m.booking.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_FlightHotelRequiresDetails(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.CreateBooking(context.Background(), &request.CreateBookingRequest{
		UserID:      42,
		BookingType: "flight_hotel",
		StartDate:   "2024-03-01",
		Persons:     1,
	})

	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestEditBooking_StoresChangesVerbatim(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID:      42,
		BookingType: entity.BookingTypeFlightHotel,
		Status:      entity.BookingStatusConfirmed,
		TotalPrice:  880,
	}
	booking.ID = 11

	m.booking.On("FindByIDForUser", mock.Anything, int64(11), int64(42)).Return(booking, nil)

	var saved *entity.BookingChanges
	m.booking.On("SavePendingChanges", mock.Anything, int64(11), mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*entity.BookingChanges)
		}).
		Return(nil)

	err := svc.EditBooking(context.Background(), 11, &request.EditBookingRequest{
		UserID: 42,
		Changes: &request.BookingChangesRequest{
			Persons:       intPtr(4),
			FlightDetails: map[string]any{"airline": "AirNova"},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 4, *saved.Persons)
	assert.Equal(t, map[string]any{"airline": "AirNova"}, saved.FlightDetails)
	assert.Nil(t, saved.StartDate)
	// an edit is a proposal: nothing but the pending document moves
	assert.Equal(t, 880.0, booking.TotalPrice)
}

func TestEditBooking_CanceledRejected(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID: 42,
		Status: entity.BookingStatusCanceled,
	}
	booking.ID = 11

	m.booking.On("FindByIDForUser", mock.Anything, int64(11), int64(42)).Return(booking, nil)

	err := svc.EditBooking(context.Background(), 11, &request.EditBookingRequest{
		UserID:  42,
		Changes: &request.BookingChangesRequest{Persons: intPtr(4)},
	})

	assert.ErrorIs(t, err, entity.ErrBookingCanceled)
	m.booking.AssertNotCalled(t, "SavePendingChanges", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditBooking_NotOwnedLooksNotFound(t *testing.T) {
	svc, m := newBookingService(t)

	m.booking.On("FindByIDForUser", mock.Anything, int64(11), int64(1)).Return(nil, nil)

	err := svc.EditBooking(context.Background(), 11, &request.EditBookingRequest{
		UserID:  1,
		Changes: &request.BookingChangesRequest{Persons: intPtr(4)},
	})

	assert.ErrorIs(t, err, entity.ErrBookingNotFound)
}

func TestEditBooking_EmptyChangesRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	err := svc.EditBooking(context.Background(), 11, &request.EditBookingRequest{
		UserID:  42,
		Changes: &request.BookingChangesRequest{},
	})

	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestCancelBooking(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID: 42,
		Status: entity.BookingStatusConfirmed,
		PendingChanges: &entity.BookingChanges{
			Persons: intPtr(4),
		},
	}
	booking.ID = 11

	m.booking.On("FindByIDForUser", mock.Anything, int64(11), int64(42)).Return(booking, nil)
	m.booking.On("UpdateStatus", mock.Anything, int64(11), entity.BookingStatusCanceled).Return(nil)

	err := svc.CancelBooking(context.Background(), 11, 42)

	require.NoError(t, err)
	m.booking.AssertCalled(t, "UpdateStatus", mock.Anything, int64(11), entity.BookingStatusCanceled)
	// pending_changes survive a cancel
	m.booking.AssertNotCalled(t, "SavePendingChanges", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_AlreadyCanceled(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID: 42,
		Status: entity.BookingStatusCanceled,
	}
	booking.ID = 11

	m.booking.On("FindByIDForUser", mock.Anything, int64(11), int64(42)).Return(booking, nil)

	err := svc.CancelBooking(context.Background(), 11, 42)

	assert.ErrorIs(t, err, entity.ErrBookingCanceled)
	m.booking.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_Idempotent(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID:      42,
		BookingType: entity.BookingTypeFlightHotel,
		StartDate:   date(t, "2024-01-01"),
		Persons:     2,
		TotalPrice:  880,
		Status:      entity.BookingStatusConfirmed,
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	resp, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "confirmed",
	})

	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.False(t, m.booking.wroteRow)
	// no recompute on the short-circuit path
	assert.Equal(t, 880.0, resp.Booking.TotalPrice)
}

func TestUpdateBookingStatus_CanceledIsTerminal(t *testing.T) {
	svc, m := newBookingService(t)

	booking := &entity.Booking{
		UserID: 42,
		Status: entity.BookingStatusCanceled,
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	_, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "confirmed",
	})

	assert.ErrorIs(t, err, entity.ErrBookingCanceled)
	assert.False(t, m.booking.wroteRow)
}

func TestUpdateBookingStatus_ConfirmMergesAndReprices(t *testing.T) {
	svc, m := newBookingService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Price: 100}
	pkg.ID = 7

	booking := &entity.Booking{
		UserID:      42,
		BookingType: entity.BookingTypePackage,
		PackageID:   int64Ptr(7),
		PackageName: strPtr("Bali Getaway"),
		StartDate:   date(t, "2024-03-01"),
		EndDate:     datePtr(t, "2024-03-03"),
		Persons:     2,
		TotalPrice:  600,
		Status:      entity.BookingStatusPending,
		PendingChanges: &entity.BookingChanges{
			Persons: intPtr(3),
		},
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.pkg.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	// fresh changes win over stored ones on collision
	resp, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "confirmed",
		Changes: &request.BookingChangesRequest{
			Persons: intPtr(4),
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.True(t, m.booking.wroteRow)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 4, resp.Booking.Persons)
	assert.Equal(t, 1200.0, resp.Booking.TotalPrice) // 100 * 4 persons * 3 nights
	assert.Nil(t, resp.Booking.PendingChanges)
}

func TestUpdateBookingStatus_InvalidPriceRollsBack(t *testing.T) {
	svc, m := newBookingService(t)

	// package-priced booking with no package resolves to a zero total
	booking := &entity.Booking{
		UserID:      42,
		BookingType: entity.BookingTypePackage,
		StartDate:   date(t, "2024-03-01"),
		EndDate:     datePtr(t, "2024-03-03"),
		Persons:     2,
		TotalPrice:  600,
		Status:      entity.BookingStatusPending,
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	_, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "confirmed",
	})

	assert.ErrorIs(t, err, entity.ErrInvalidPrice)
	assert.False(t, m.booking.wroteRow)
}

func TestUpdateBookingStatus_IgnoresClientTotalPrice(t *testing.T) {
	svc, m := newBookingService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Price: 100}
	pkg.ID = 7

	booking := &entity.Booking{
		UserID:      42,
		BookingType: entity.BookingTypePackage,
		PackageID:   int64Ptr(7),
		PackageName: strPtr("Bali Getaway"),
		StartDate:   date(t, "2024-03-01"),
		EndDate:     datePtr(t, "2024-03-03"),
		Persons:     2,
		TotalPrice:  600,
		Status:      entity.BookingStatusPending,
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.pkg.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	resp, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "confirmed",
		Changes: &request.BookingChangesRequest{
			TotalPrice: float64Ptr(1),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 600.0, resp.Booking.TotalPrice)
}

func TestUpdateBookingStatus_PlainFlipKeepsPendingChanges(t *testing.T) {
	svc, m := newBookingService(t)

	pending := &entity.BookingChanges{Persons: intPtr(3)}
	booking := &entity.Booking{
		UserID:         42,
		BookingType:    entity.BookingTypeFlightHotel,
		StartDate:      date(t, "2024-01-01"),
		Persons:        2,
		TotalPrice:     880,
		Status:         entity.BookingStatusConfirmed,
		PendingChanges: pending,
	}
	booking.ID = 11

	m.user.On("ExistsByID", mock.Anything, int64(1)).Return(true, nil)
	m.booking.On("UpdateWithLock", mock.Anything, int64(11)).Return(booking, nil)

	resp, err := svc.UpdateBookingStatus(context.Background(), 11, &request.UpdateBookingStatusRequest{
		UserID: 1,
		Status: "canceled",
	})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, entity.BookingStatusCanceled, resp.Booking.Status)
	// non-confirm transitions never touch the pending document
	assert.Equal(t, pending, resp.Booking.PendingChanges)
	// and never reprice
	assert.Equal(t, 880.0, resp.Booking.TotalPrice)
}
