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

type PackageService interface {
	// Public endpoints
	GetPackage(ctx context.Context, id int64) (*response.PackageResponse, error)
	ListPackages(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PackageResponse], error)

	// Admin endpoints
	CreatePackage(ctx context.Context, req *request.CreatePackageRequest) (*response.PackageResponse, error)
	UpdatePackage(ctx context.Context, id int64, req *request.UpdatePackageRequest) (*response.PackageResponse, error)
	DeletePackage(ctx context.Context, id int64) error
}

type packageService struct {
	repo  *repository.Repository
	cache cache.PackageCache
	log   *zap.Logger
}

func NewPackageService(repo *repository.Repository, packageCache cache.PackageCache, log *zap.Logger) PackageService {
	return &packageService{
		repo:  repo,
		cache: packageCache,
		log:   log.With(zap.String("service", "package")),
	}
}

// lookupPackage reads through the cache into Postgres. Cache failures are
// logged and fall through; only a genuinely absent package is an error.
func lookupPackage(ctx context.Context, repo repository.PackageRepository, packageCache cache.PackageCache, log *zap.Logger, id int64) (*entity.TravelPackage, error) {
	if packageCache != nil {
		pkg, err := packageCache.Get(ctx, id)
		if err == nil && pkg != nil {
			return pkg, nil
		}
	}

	pkg, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find package: %w", err)
	}
	if pkg == nil {
		return nil, fmt.Errorf("package %d: %w", id, entity.ErrPackageNotFound)
	}

	if packageCache != nil {
		if err := packageCache.Set(ctx, pkg); err != nil {
			log.Debug("Failed to cache package", zap.Error(err), zap.Int64("package_id", id))
		}
	}

	return pkg, nil
}

func (s *packageService) GetPackage(ctx context.Context, id int64) (*response.PackageResponse, error) {
	pkg, err := lookupPackage(ctx, s.repo.Package, s.cache, s.log, id)
	if err != nil {
		return nil, err
	}

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) ListPackages(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PackageResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	packages, err := s.repo.Package.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to list packages",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list packages: %w", err)
	}

	total, err := s.repo.Package.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count packages", zap.Error(err))
		return nil, fmt.Errorf("count packages: %w", err)
	}

	packageResponses := make([]response.PackageResponse, len(packages))
	for i, pkg := range packages {
		packageResponses[i] = response.PackageToResponse(pkg)
	}

	return response.NewPaginatedResponse(packageResponses, req.Page, req.PerPage, total), nil
}

func (s *packageService) CreatePackage(ctx context.Context, req *request.CreatePackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create package validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	pkg := &entity.TravelPackage{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Destination: req.Destination,
		Description: req.Description,
		Price:       req.Price,
	}

	id, err := s.repo.Package.Create(ctx, pkg)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	pkg.ID = id

	s.log.Info("Package created",
		zap.Int64("package_id", id),
		zap.String("name", req.Name),
		zap.Float64("price", req.Price),
	)

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) UpdatePackage(ctx context.Context, id int64, req *request.UpdatePackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update package validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	pkg, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find package: %w", err)
	}
	if pkg == nil {
		return nil, fmt.Errorf("package %d: %w", id, entity.ErrPackageNotFound)
	}

	pkg.Name = req.Name
	pkg.Destination = req.Destination
	pkg.Description = req.Description
	pkg.Price = req.Price

	if err := s.repo.Package.Update(ctx, pkg); err != nil {
		return nil, err
	}

	// Stale price must not survive in the cache: confirmations price off it.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to invalidate package cache", zap.Error(err), zap.Int64("package_id", id))
		}
	}

	s.log.Info("Package updated", zap.Int64("package_id", id))

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *packageService) DeletePackage(ctx context.Context, id int64) error {
	if err := s.repo.Package.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to invalidate package cache", zap.Error(err), zap.Int64("package_id", id))
		}
	}

	return nil
}
