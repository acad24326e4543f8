package usecase

import (
	"context"
	"errors"
	"testing"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPackageService(t *testing.T) (PackageService, *MockPackageRepository, *MockPackageCache) {
	t.Helper()

	mockRepo := &MockPackageRepository{}
	mockCache := &MockPackageCache{}
	repo := &repository.Repository{Package: mockRepo}

	return NewPackageService(repo, mockCache, zap.NewNop()), mockRepo, mockCache
}

func TestGetPackage_CacheHit(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Destination: "Bali", Price: 100}
	pkg.ID = 7

	mockCache.On("Get", mock.Anything, int64(7)).Return(pkg, nil)

	resp, err := svc.GetPackage(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Bali Getaway", resp.Name)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetPackage_CacheMissFallsThrough(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Destination: "Bali", Price: 100}
	pkg.ID = 7

	mockCache.On("Get", mock.Anything, int64(7)).Return(nil, nil)
	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	mockCache.On("Set", mock.Anything, pkg).Return(nil)

	resp, err := svc.GetPackage(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	mockCache.AssertCalled(t, "Set", mock.Anything, pkg)
}

func TestGetPackage_CacheErrorFallsThrough(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Price: 100}
	pkg.ID = 7

	mockCache.On("Get", mock.Anything, int64(7)).Return(nil, errors.New("redis down"))
	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	// Set failing is best-effort, never an error for the caller
	mockCache.On("Set", mock.Anything, pkg).Return(errors.New("redis down"))

	resp, err := svc.GetPackage(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Bali Getaway", resp.Name)
}

func TestGetPackage_NotFound(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	mockCache.On("Get", mock.Anything, int64(99)).Return(nil, nil)
	mockRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.GetPackage(context.Background(), 99)

	assert.ErrorIs(t, err, entity.ErrPackageNotFound)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestUpdatePackage_InvalidatesCache(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	pkg := &entity.TravelPackage{Name: "Bali Getaway", Destination: "Bali", Price: 100}
	pkg.ID = 7

	mockRepo.On("FindByID", mock.Anything, int64(7)).Return(pkg, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	mockCache.On("Delete", mock.Anything, int64(7)).Return(nil)

	resp, err := svc.UpdatePackage(context.Background(), 7, &request.UpdatePackageRequest{
		Name:        "Bali Getaway",
		Destination: "Bali",
		Price:       120,
	})

	require.NoError(t, err)
	assert.Equal(t, 120.0, resp.Price)
	mockCache.AssertCalled(t, "Delete", mock.Anything, int64(7))
}

func TestDeletePackage_InvalidatesCache(t *testing.T) {
	svc, mockRepo, mockCache := newPackageService(t)

	mockRepo.On("Delete", mock.Anything, int64(7)).Return(nil)
	mockCache.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := svc.DeletePackage(context.Background(), 7)

	require.NoError(t, err)
	mockCache.AssertCalled(t, "Delete", mock.Anything, int64(7))
}

func TestCreatePackage_RejectsZeroPrice(t *testing.T) {
	svc, mockRepo, _ := newPackageService(t)

	_, err := svc.CreatePackage(context.Background(), &request.CreatePackageRequest{
		Name:        "Bali Getaway",
		Destination: "Bali",
		Price:       0,
	})

	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
