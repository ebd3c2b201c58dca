package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByHotel(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, hotelID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) SubmitGuest(ctx context.Context, id string, expectedRevision int64, submission domain.GuestSubmission) (*domain.Booking, error) {
	args := m.Called(ctx, id, expectedRevision, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, expectedRevision int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, expectedRevision, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id, hotelID string) error {
	args := m.Called(ctx, id, hotelID)
	return args.Error(0)
}

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) Seed(ctx context.Context, hotels []domain.Hotel) error {
	args := m.Called(ctx, hotels)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSubmitLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, bookingID, owner, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSubmitLock(ctx context.Context, bookingID, owner string) error {
	args := m.Called(ctx, bookingID, owner)
	return args.Error(0)
}

func (m *MockCache) GetDraft(ctx context.Context, token string) (*domain.GuestDraft, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestDraft), args.Error(1)
}

func (m *MockCache) SaveDraft(ctx context.Context, token string, draft domain.GuestDraft) error {
	args := m.Called(ctx, token, draft)
	return args.Error(0)
}

func (m *MockCache) DeleteDraft(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, folder string, upload domain.FileUpload) (string, error) {
	args := m.Called(ctx, folder, upload.Filename)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
