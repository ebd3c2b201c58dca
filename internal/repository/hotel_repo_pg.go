package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGHotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{db: db}
}

func (r *PGHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM hotels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func (r *PGHotelRepository) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM hotels WHERE id=$1`, id).Scan(&h.ID, &h.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PGHotelRepository) Seed(ctx context.Context, hotels []domain.Hotel) error {
	batch := &pgx.Batch{}
	for _, h := range hotels {
		batch.Queue(`INSERT INTO hotels (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, h.ID, h.Name)
	}
	return r.db.SendBatch(ctx, batch).Close()
}

var _ HotelRepository = (*PGHotelRepository)(nil)
