package usecase

import (
	"context"

	"travel-booking/internal/data/entity"

	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
	// wroteRow records whether the last UpdateWithLock apply asked for a write.
	wroteRow bool
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) (int64, error) {
	args := m.Called(ctx, booking)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*entity.Booking, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) SavePendingChanges(ctx context.Context, id int64, changes *entity.BookingChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// UpdateWithLock runs apply against the booking the test configured, mirroring
// the transactional contract: an apply error surfaces as-is with no write, and
// write=false commits nothing.
func (m *MockBookingRepository) UpdateWithLock(ctx context.Context, id int64, apply func(b *entity.Booking) (bool, error)) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	booking := args.Get(0).(*entity.Booking)
	write, err := apply(booking)
	if err != nil {
		return nil, err
	}
	m.wroteRow = write
	return booking, nil
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *entity.TravelPackage) (int64, error) {
	args := m.Called(ctx, pkg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id int64) (*entity.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.TravelPackage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *entity.TravelPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPackageCache struct {
	mock.Mock
}

func (m *MockPackageCache) Get(ctx context.Context, id int64) (*entity.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TravelPackage), args.Error(1)
}

func (m *MockPackageCache) Set(ctx context.Context, pkg *entity.TravelPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageCache) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
