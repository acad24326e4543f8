package entity

import (
	"time"
)

// Base for rows with bigserial ids and both timestamps.
type Base struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BaseSimple for rows that are never updated in place.
type BaseSimple struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
