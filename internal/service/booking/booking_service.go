package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/kafka"
	"github.com/Domenick1991/guestportal/internal/repository"
	"github.com/google/uuid"
)

// BookingUseCase covers the hotelier side of the booking lifecycle.
type BookingUseCase interface {
	CreateBooking(ctx context.Context, hotelID string, input BookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, bookingID, hotelID string, input BookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, hotelID, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error)
	ChangeStatus(ctx context.Context, bookingID, hotelID string, status domain.BookingStatus) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, bookingID, hotelID string) error
}

// GuestUseCase covers everything reachable through a guest token.
type GuestUseCase interface {
	ResolveGuestAccess(ctx context.Context, token string) (*GuestAccess, error)
	ResolveConfirmation(ctx context.Context, token string) (*Confirmation, error)
	SaveDraft(ctx context.Context, token string, input DraftInput) (*domain.GuestDraft, error)
	SubmitGuestData(ctx context.Context, bookingID string, input GuestSubmissionInput, files GuestFiles) (*domain.Booking, error)
}

type Cache interface {
	AcquireSubmitLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, bookingID, owner string) error
	GetDraft(ctx context.Context, token string) (*domain.GuestDraft, error)
	SaveDraft(ctx context.Context, token string, draft domain.GuestDraft) error
	DeleteDraft(ctx context.Context, token string) error
}

type FileStore interface {
	Save(ctx context.Context, folder string, upload domain.FileUpload) (string, error)
	Delete(ctx context.Context, ref string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	hotels             repository.HotelRepository
	cache              Cache
	files              FileStore
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	submitLockTTL      time.Duration
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithSubmitLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.submitLockTTL = ttl
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService wires the booking lifecycle. cache and producer may be
// nil: drafts and submit locks are then disabled and no events are sent.
func NewBookingService(
	bookings repository.BookingRepository,
	hotels repository.HotelRepository,
	cache Cache,
	files FileStore,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		hotels:        hotels,
		cache:         cache,
		files:         files,
		producer:      producer,
		bookingTopic:  bookingTopic,
		submitLockTTL: 2 * time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, hotelID string, input BookingInput) (*domain.Booking, error) {
	fields, err := input.parse()
	if err != nil {
		return nil, err
	}
	hotel, err := s.hotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.NewString(),
		HotelID:   hotel.ID,
		Status:    domain.BookingStatusPendingGuest,
		Token:     uuid.NewString(),
		Revision:  1,
		CreatedAt: s.now().UTC(),
	}
	fields.applyTo(booking)

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	log.Printf("booking created id=%s hotel_id=%s", booking.ID, booking.HotelID)
	s.publish(ctx, kafka.EventBookingCreated, booking, hotel.Name)
	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, hotelID string, input BookingInput) (*domain.Booking, error) {
	fields, err := input.parse()
	if err != nil {
		return nil, err
	}

	booking, err := s.GetBooking(ctx, hotelID, bookingID)
	if err != nil {
		return nil, err
	}
	if input.Revision != nil && *input.Revision != booking.Revision {
		return nil, ErrConflict
	}
	// The guest's amount due was computed from the price they saw.
	if booking.Guest != nil && fields.coreData.TotalPriceCents != booking.CoreData.TotalPriceCents {
		return nil, &ValidationError{Fields: map[string]string{
			"coreData.totalPriceCents": "cannot be changed after the guest has submitted their data",
		}}
	}

	fields.applyTo(booking)
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, kafka.EventBookingUpdated, booking, "")
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, hotelID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if booking.HotelID != hotelID {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// ListBookings returns the hotel's bookings newest first. The status part of
// the filter runs in the store, the free-text part here.
func (s *BookingService) ListBookings(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error) {
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}

	all, err := s.bookings.ListByHotel(ctx, hotelID, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]domain.Booking, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *BookingService) ChangeStatus(ctx context.Context, bookingID, hotelID string, status domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.GetBooking(ctx, hotelID, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, current.ID, current.Revision, status)
	if err != nil {
		return nil, mapRepoError(err)
	}

	log.Printf("booking status changed id=%s from=%q to=%q", updated.ID, current.Status, updated.Status)
	s.publish(ctx, kafka.EventBookingStatusChanged, updated, "")
	return updated, nil
}

// DeleteBooking removes every stored document of the booking, then the
// record. Documents that cannot be deleted are logged and skipped.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, hotelID string) error {
	booking, err := s.GetBooking(ctx, hotelID, bookingID)
	if err != nil {
		return err
	}

	s.removeFiles(ctx, booking.ID, booking.FileRefs())
	if s.cache != nil {
		if err := s.cache.DeleteDraft(ctx, booking.Token); err != nil {
			log.Printf("WARNING: failed to drop draft of booking %s: %v", booking.ID, err)
		}
	}

	if err := s.bookings.Delete(ctx, booking.ID, hotelID); err != nil {
		return mapRepoError(err)
	}

	log.Printf("booking deleted id=%s hotel_id=%s", booking.ID, hotelID)
	s.publish(ctx, kafka.EventBookingDeleted, booking, "")
	return nil
}

func (s *BookingService) removeFiles(ctx context.Context, bookingID string, refs []string) {
	if s.files == nil {
		return
	}
	for _, ref := range refs {
		if err := s.files.Delete(ctx, ref); err != nil {
			log.Printf("WARNING: failed to delete file %s of booking %s: %v", ref, bookingID, err)
		}
	}
}

func (s *BookingService) hotel(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("load hotel: %w", err)
	}
	return hotel, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}

var (
	_ BookingUseCase = (*BookingService)(nil)
	_ GuestUseCase   = (*BookingService)(nil)
)
