package repository

import (
	"context"

	"github.com/Domenick1991/guestportal/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	// ListByHotel returns the hotel's bookings newest first, narrowed by the
	// filter status. The free-text query is not applied here.
	ListByHotel(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error)
	// Update writes the hotelier-owned fields if the stored revision still
	// equals booking.Revision, then bumps booking.Revision.
	Update(ctx context.Context, booking *domain.Booking) error
	// SubmitGuest stores the guest submission and confirms the booking if it is
	// still pending at the expected revision.
	SubmitGuest(ctx context.Context, id string, expectedRevision int64, submission domain.GuestSubmission) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, expectedRevision int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id, hotelID string) error
}

type HotelRepository interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id string) (*domain.Hotel, error)
	// Seed inserts or renames the configured hotels.
	Seed(ctx context.Context, hotels []domain.Hotel) error
}
