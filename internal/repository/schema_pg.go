package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS hotels (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id                  TEXT PRIMARY KEY,
	hotel_id            TEXT NOT NULL REFERENCES hotels(id),
	status              TEXT NOT NULL,
	token               TEXT NOT NULL UNIQUE,
	guest_first_name    TEXT NOT NULL,
	guest_last_name     TEXT NOT NULL,
	check_in_date       DATE NOT NULL,
	check_out_date      DATE NOT NULL CHECK (check_out_date > check_in_date),
	catering            TEXT NOT NULL,
	total_price_cents   BIGINT NOT NULL CHECK (total_price_cents > 0),
	guest_form_language TEXT NOT NULL,
	rooms               JSONB NOT NULL,
	internal_notes      TEXT,
	guest               JSONB,
	revision            BIGINT NOT NULL DEFAULT 1,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_hotel_created_idx ON bookings (hotel_id, created_at DESC);
`

// MigratePG creates the tables the pgx repositories expect.
func MigratePG(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, pgSchema)
	return err
}
