package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, hotel_id, status, token, guest_first_name, guest_last_name, check_in_date, check_out_date,
	catering, total_price_cents, guest_form_language, rooms, internal_notes, guest, revision, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	rooms, err := json.Marshal(booking.Rooms)
	if err != nil {
		return fmt.Errorf("marshal rooms: %w", err)
	}
	guest, err := marshalGuest(booking.Guest)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, hotel_id, status, token, guest_first_name, guest_last_name,
			check_in_date, check_out_date, catering, total_price_cents, guest_form_language, rooms, internal_notes, guest, revision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		booking.ID, booking.HotelID, booking.Status, booking.Token, booking.GuestInfo.FirstName, booking.GuestInfo.LastName,
		booking.Period.CheckInDate, booking.Period.CheckOutDate, booking.CoreData.Catering, booking.CoreData.TotalPriceCents,
		booking.CoreData.GuestFormLanguage, rooms, booking.InternalNotes, guest, booking.Revision).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
}

func (r *PGBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE token=$1`, token))
}

func (r *PGBookingRepository) ListByHotel(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE hotel_id=$1`
	args := []any{hotelID}
	if filter.HasStatus() {
		query += ` AND status=$2`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	rooms, err := json.Marshal(booking.Rooms)
	if err != nil {
		return fmt.Errorf("marshal rooms: %w", err)
	}

	updated, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET guest_first_name=$1, guest_last_name=$2,
			check_in_date=$3, check_out_date=$4, catering=$5, total_price_cents=$6, guest_form_language=$7,
			rooms=$8, internal_notes=$9, revision=revision+1, updated_at=now()
		WHERE id=$10 AND hotel_id=$11 AND revision=$12
		RETURNING `+bookingColumns,
		booking.GuestInfo.FirstName, booking.GuestInfo.LastName, booking.Period.CheckInDate, booking.Period.CheckOutDate,
		booking.CoreData.Catering, booking.CoreData.TotalPriceCents, booking.CoreData.GuestFormLanguage,
		rooms, booking.InternalNotes, booking.ID, booking.HotelID, booking.Revision))
	if err != nil {
		return r.explainMiss(ctx, booking.ID, err)
	}
	*booking = *updated
	return nil
}

func (r *PGBookingRepository) SubmitGuest(ctx context.Context, id string, expectedRevision int64, submission domain.GuestSubmission) (*domain.Booking, error) {
	guest, err := marshalGuest(&submission)
	if err != nil {
		return nil, err
	}

	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET guest=$1, status=$2, revision=revision+1, updated_at=now()
		WHERE id=$3 AND status=$4 AND guest IS NULL AND revision=$5
		RETURNING `+bookingColumns,
		guest, domain.BookingStatusConfirmed, id, domain.BookingStatusPendingGuest, expectedRevision))
	if err != nil {
		return nil, r.explainMiss(ctx, id, err)
	}
	return b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, expectedRevision int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, revision=revision+1, updated_at=now()
		WHERE id=$2 AND revision=$3
		RETURNING `+bookingColumns, status, id, expectedRevision))
	if err != nil {
		return nil, r.explainMiss(ctx, id, err)
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id, hotelID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1 AND hotel_id=$2`, id, hotelID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// explainMiss turns a guarded UPDATE that matched nothing into ErrNotFound or
// ErrConflict depending on whether the row still exists.
func (r *PGBookingRepository) explainMiss(ctx context.Context, id string, err error) error {
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}
	return ErrNotFound
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b     domain.Booking
		rooms []byte
		guest []byte
	)
	if err := row.Scan(&b.ID, &b.HotelID, &b.Status, &b.Token, &b.GuestInfo.FirstName, &b.GuestInfo.LastName,
		&b.Period.CheckInDate, &b.Period.CheckOutDate, &b.CoreData.Catering, &b.CoreData.TotalPriceCents,
		&b.CoreData.GuestFormLanguage, &rooms, &b.InternalNotes, &guest, &b.Revision, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalBookingJSON(&b, rooms, guest); err != nil {
		return nil, err
	}
	return &b, nil
}

func marshalGuest(guest *domain.GuestSubmission) (any, error) {
	if guest == nil {
		return nil, nil
	}
	data, err := json.Marshal(guest)
	if err != nil {
		return nil, fmt.Errorf("marshal guest submission: %w", err)
	}
	return data, nil
}

func unmarshalBookingJSON(b *domain.Booking, rooms, guest []byte) error {
	if len(rooms) > 0 {
		if err := json.Unmarshal(rooms, &b.Rooms); err != nil {
			return fmt.Errorf("decode rooms of booking %s: %w", b.ID, err)
		}
	}
	if len(guest) > 0 && string(guest) != "null" {
		var g domain.GuestSubmission
		if err := json.Unmarshal(guest, &g); err != nil {
			return fmt.Errorf("decode guest of booking %s: %w", b.ID, err)
		}
		if g.Companions == nil {
			g.Companions = []domain.Companion{}
		}
		b.Guest = &g
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
