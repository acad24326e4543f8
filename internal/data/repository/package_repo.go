package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.TravelPackage) (int64, error)
	FindByID(ctx context.Context, id int64) (*entity.TravelPackage, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.TravelPackage, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, pkg *entity.TravelPackage) error
	Delete(ctx context.Context, id int64) error
}

type packageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPackageRepository(db database.PgxIface, log *zap.Logger) PackageRepository {
	return &packageRepository{
		db:  db,
		log: log.With(zap.String("repository", "package")),
	}
}

func (r *packageRepository) Create(ctx context.Context, pkg *entity.TravelPackage) (int64, error) {
	query := `
		INSERT INTO travel_packages (name, destination, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		pkg.Name,
		pkg.Destination,
		pkg.Description,
		pkg.Price,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	).Scan(&id)

	if err != nil {
		r.log.Error("Failed to create package",
			zap.Error(err),
			zap.String("name", pkg.Name),
		)
		return 0, fmt.Errorf("create package %s: %w", pkg.Name, err)
	}

	return id, nil
}

func (r *packageRepository) FindByID(ctx context.Context, id int64) (*entity.TravelPackage, error) {
	query := `
		SELECT id, name, destination, description, price, created_at, updated_at
		FROM travel_packages
		WHERE id = $1
	`

	var pkg entity.TravelPackage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Destination,
		&pkg.Description,
		&pkg.Price,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find package by ID",
			zap.Error(err),
			zap.Int64("package_id", id),
		)
		return nil, fmt.Errorf("find package by ID %d: %w", id, err)
	}

	return &pkg, nil
}

func (r *packageRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.TravelPackage, error) {
	query := `
		SELECT id, name, destination, description, price, created_at, updated_at
		FROM travel_packages
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find packages",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find packages: %w", err)
	}
	defer rows.Close()

	var packages []*entity.TravelPackage
	for rows.Next() {
		var pkg entity.TravelPackage
		err := rows.Scan(
			&pkg.ID,
			&pkg.Name,
			&pkg.Destination,
			&pkg.Description,
			&pkg.Price,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		packages = append(packages, &pkg)
	}

	return packages, rows.Err()
}

func (r *packageRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM travel_packages`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count packages", zap.Error(err))
		return 0, fmt.Errorf("count packages: %w", err)
	}

	return count, nil
}

func (r *packageRepository) Update(ctx context.Context, pkg *entity.TravelPackage) error {
	query := `
		UPDATE travel_packages
		SET name = $2, destination = $3, description = $4, price = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.Name,
		pkg.Destination,
		pkg.Description,
		pkg.Price,
	)

	if err != nil {
		r.log.Error("Failed to update package",
			zap.Error(err),
			zap.Int64("package_id", pkg.ID),
		)
		return fmt.Errorf("update package %d: %w", pkg.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("package %d: %w", pkg.ID, entity.ErrPackageNotFound)
	}

	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM travel_packages WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete package",
			zap.Error(err),
			zap.Int64("package_id", id),
		)
		return fmt.Errorf("delete package %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("package %d: %w", id, entity.ErrPackageNotFound)
	}

	r.log.Info("Package deleted", zap.Int64("package_id", id))
	return nil
}
