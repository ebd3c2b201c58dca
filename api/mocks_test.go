package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/service/booking"
	"github.com/Domenick1991/guestportal/internal/service/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, hotelID string, input booking.BookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, hotelID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBooking(ctx context.Context, bookingID, hotelID string, input booking.BookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, hotelID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, hotelID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, hotelID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, hotelID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ChangeStatus(ctx context.Context, bookingID, hotelID string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, hotelID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, bookingID, hotelID string) error {
	args := m.Called(ctx, bookingID, hotelID)
	return args.Error(0)
}

type MockGuestUseCase struct {
	mock.Mock
}

func (m *MockGuestUseCase) ResolveGuestAccess(ctx context.Context, token string) (*booking.GuestAccess, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.GuestAccess), args.Error(1)
}

func (m *MockGuestUseCase) ResolveConfirmation(ctx context.Context, token string) (*booking.Confirmation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Confirmation), args.Error(1)
}

func (m *MockGuestUseCase) SaveDraft(ctx context.Context, token string, input booking.DraftInput) (*domain.GuestDraft, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestDraft), args.Error(1)
}

func (m *MockGuestUseCase) SubmitGuestData(ctx context.Context, bookingID string, input booking.GuestSubmissionInput, files booking.GuestFiles) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, input, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) Stats(ctx context.Context, hotelID string) (*dashboard.Stats, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Stats), args.Error(1)
}

type MockHotelUseCase struct {
	mock.Mock
}

func (m *MockHotelUseCase) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelUseCase) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func testContext(method, target string, body *string, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != nil {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(*body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	c.Params = params
	return c, w
}
