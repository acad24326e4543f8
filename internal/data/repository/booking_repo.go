package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (int64, error)
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindByIDForUser(ctx context.Context, id, userID int64) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context) (int64, error)

	// SavePendingChanges stores a proposed change document and forces the
	// booking back to pending. Touches nothing else.
	SavePendingChanges(ctx context.Context, id int64, changes *entity.BookingChanges) error

	// UpdateStatus is a plain status flip with no change application.
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error

	// UpdateWithLock runs apply against the row inside a transaction holding
	// SELECT ... FOR UPDATE, serializing concurrent transitions per booking.
	// When apply returns write=false the transaction commits without touching
	// the row; otherwise every mutable column is written in one UPDATE and the
	// row is read back inside the same transaction before commit. Any error
	// from apply rolls the transaction back.
	UpdateWithLock(ctx context.Context, id int64, apply func(b *entity.Booking) (write bool, err error)) (*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, user_id, booking_type, package_id, package_name,
	       flight_details, hotel_details, itinerary_details,
	       start_date, end_date, persons, total_price, status, pending_changes,
	       created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// marshalDoc encodes a details document for a jsonb column, NULL when absent.
func marshalDoc(doc any) ([]byte, error) {
	switch v := doc.(type) {
	case map[string]any:
		if v == nil {
			return nil, nil
		}
	case []entity.Activity:
		if v == nil {
			return nil, nil
		}
	case *entity.BookingChanges:
		if v == nil {
			return nil, nil
		}
	}
	return json.Marshal(doc)
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var b entity.Booking
	var flight, hotel, itinerary, pending []byte

	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.BookingType,
		&b.PackageID,
		&b.PackageName,
		&flight,
		&hotel,
		&itinerary,
		&b.StartDate,
		&b.EndDate,
		&b.Persons,
		&b.TotalPrice,
		&b.Status,
		&pending,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if flight != nil {
		if err := json.Unmarshal(flight, &b.FlightDetails); err != nil {
			return nil, fmt.Errorf("decode flight_details: %w", err)
		}
	}
	if hotel != nil {
		if err := json.Unmarshal(hotel, &b.HotelDetails); err != nil {
			return nil, fmt.Errorf("decode hotel_details: %w", err)
		}
	}
	if itinerary != nil {
		if err := json.Unmarshal(itinerary, &b.ItineraryDetails); err != nil {
			return nil, fmt.Errorf("decode itinerary_details: %w", err)
		}
	}
	if pending != nil {
		if err := json.Unmarshal(pending, &b.PendingChanges); err != nil {
			return nil, fmt.Errorf("decode pending_changes: %w", err)
		}
	}

	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (int64, error) {
	query := `
		INSERT INTO bookings (reference, user_id, booking_type, package_id, package_name,
		                      flight_details, hotel_details, itinerary_details,
		                      start_date, end_date, persons, total_price, status,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	flight, err := marshalDoc(booking.FlightDetails)
	if err != nil {
		return 0, fmt.Errorf("encode flight_details: %w", err)
	}
	hotel, err := marshalDoc(booking.HotelDetails)
	if err != nil {
		return 0, fmt.Errorf("encode hotel_details: %w", err)
	}
	itinerary, err := marshalDoc(booking.ItineraryDetails)
	if err != nil {
		return 0, fmt.Errorf("encode itinerary_details: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, query,
		booking.Reference,
		booking.UserID,
		booking.BookingType,
		booking.PackageID,
		booking.PackageName,
		flight,
		hotel,
		itinerary,
		booking.StartDate,
		booking.EndDate,
		booking.Persons,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&id)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.Int64("user_id", booking.UserID),
		)
		return 0, fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return id, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND user_id = $2`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking for user",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find booking %d for user %d: %w", id, userID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %d: %w", userID, err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return 0, fmt.Errorf("count bookings by user ID %d: %w", userID, err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) SavePendingChanges(ctx context.Context, id int64, changes *entity.BookingChanges) error {
	query := `
		UPDATE bookings
		SET pending_changes = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	pending, err := marshalDoc(changes)
	if err != nil {
		return fmt.Errorf("encode pending_changes: %w", err)
	}

	result, err := r.db.Exec(ctx, query, id, pending, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to save pending changes",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return fmt.Errorf("save pending changes for booking %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", id, entity.ErrBookingNotFound)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %d status to %s: %w", id, string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", id, entity.ErrBookingNotFound)
	}

	return nil
}

func (r *bookingRepository) UpdateWithLock(ctx context.Context, id int64, apply func(b *entity.Booking) (bool, error)) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// no-op after a successful commit
	defer tx.Rollback(ctx)

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, entity.ErrBookingNotFound)
	}
	if err != nil {
		r.log.Error("Failed to lock booking row",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("lock booking %d: %w", id, err)
	}

	write, err := apply(booking)
	if err != nil {
		return nil, err
	}

	if !write {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return booking, nil
	}

	flight, err := marshalDoc(booking.FlightDetails)
	if err != nil {
		return nil, fmt.Errorf("encode flight_details: %w", err)
	}
	hotel, err := marshalDoc(booking.HotelDetails)
	if err != nil {
		return nil, fmt.Errorf("encode hotel_details: %w", err)
	}
	itinerary, err := marshalDoc(booking.ItineraryDetails)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary_details: %w", err)
	}
	pending, err := marshalDoc(booking.PendingChanges)
	if err != nil {
		return nil, fmt.Errorf("encode pending_changes: %w", err)
	}

	updateQuery := `
		UPDATE bookings
		SET package_id = $2, package_name = $3,
		    flight_details = $4, hotel_details = $5, itinerary_details = $6,
		    start_date = $7, end_date = $8, persons = $9,
		    total_price = $10, status = $11, pending_changes = $12,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err = tx.Exec(ctx, updateQuery,
		id,
		booking.PackageID,
		booking.PackageName,
		flight,
		hotel,
		itinerary,
		booking.StartDate,
		booking.EndDate,
		booking.Persons,
		booking.TotalPrice,
		booking.Status,
		pending,
	)
	if err != nil {
		r.log.Error("Failed to update locked booking",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}

	// read-after-write inside the same transaction
	updated, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("verify booking %d after update: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return updated, nil
}
