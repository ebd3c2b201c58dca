package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/kafka"
	"github.com/Domenick1991/guestportal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)

var testHotel = &domain.Hotel{ID: "hotel-1", Name: "Hotel Edelweiss"}

func newTestService(repo *MockBookingRepository, hotels *MockHotelRepository, cache Cache, files FileStore, producer Producer) *BookingService {
	return NewBookingService(repo, hotels, cache, files, producer, "booking_topic",
		WithNotificationsTopic("notifications_topic"),
		WithSubmitLockTTL(time.Minute),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func validInput() BookingInput {
	return BookingInput{
		GuestInfo:     GuestInfoInput{FirstName: "Anna", LastName: "Rossi"},
		BookingPeriod: BookingPeriodInput{CheckInDate: "2025-01-10", CheckOutDate: "2025-01-15"},
		CoreData:      CoreDataInput{Catering: "breakfast", TotalPriceCents: 100000, GuestFormLanguage: "de"},
		Rooms:         []RoomInput{{RoomType: "Standard", Adults: 2}},
	}
}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:        "booking-1",
		HotelID:   testHotel.ID,
		Status:    domain.BookingStatusPendingGuest,
		Token:     "token-1",
		GuestInfo: domain.GuestInfo{FirstName: "Anna", LastName: "Rossi"},
		Period:    domain.BookingPeriod{CheckInDate: date("2025-01-10"), CheckOutDate: date("2025-01-15")},
		CoreData:  domain.CoreData{Catering: domain.CateringBreakfast, TotalPriceCents: 100000, GuestFormLanguage: "de"},
		Rooms:     []domain.RoomConfiguration{{RoomType: domain.RoomTypeStandard, Adults: 2}},
		Revision:  1,
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func confirmedBooking() *domain.Booking {
	b := pendingBooking()
	b.Status = domain.BookingStatusConfirmed
	b.Revision = 2
	notes := "late arrival"
	b.Guest = &domain.GuestSubmission{
		GuestData: domain.GuestData{
			FirstName: "Anna", LastName: "Rossi", Email: "anna@example.com", Phone: "+39 333",
			IDFrontURL: "/files/booking-1/front.png", IDBackURL: "/files/booking-1/back.png", Notes: &notes,
		},
		Companions: []domain.Companion{
			{FirstName: "Luca", LastName: "Rossi", IDFrontURL: "/files/booking-1/c-front.png", IDBackURL: "/files/booking-1/c-back.png"},
		},
		Payment: domain.PaymentDetails{PaymentOption: domain.PaymentOptionDeposit, AmountDueCents: 30000, PaymentProofURL: "/files/booking-1/proof.pdf"},
	}
	return b
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.BookingEvent) bool { return e.Type == eventType })
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	producer := &MockProducer{}
	service := newTestService(repo, hotels, nil, nil, producer)
	ctx := context.Background()

	hotels.On("GetByID", ctx, "hotel-1").Return(testHotel, nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusPendingGuest && b.Guest == nil && b.Revision == 1 &&
			b.ID != "" && b.Token != "" && b.ID != b.Token && b.HotelID == "hotel-1"
	})).Return(nil).Once()
	producer.On("Publish", ctx, "booking_topic", mock.Anything, eventOfType(kafka.EventBookingCreated)).Return(nil).Once()
	producer.On("Publish", ctx, "notifications_topic", mock.Anything, eventOfType(kafka.EventBookingCreated)).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, "hotel-1", validInput())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPendingGuest, booking.Status)
	assert.Nil(t, booking.Guest)
	assert.Equal(t, fixedNow, booking.CreatedAt)
	assert.Equal(t, date("2025-01-10"), booking.Period.CheckInDate)
	assert.Equal(t, 5, booking.Period.Nights())
	assert.Equal(t, int64(100000), booking.CoreData.TotalPriceCents)
	assert.Equal(t, []string{"Standard"}, booking.RoomTypes())

	repo.AssertExpectations(t)
	hotels.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(in *BookingInput)
		field  string
	}{
		{
			name:   "check-out before check-in",
			modify: func(in *BookingInput) { in.BookingPeriod.CheckOutDate = "2025-01-09" },
			field:  "bookingPeriod.checkOutDate",
		},
		{
			name:   "check-out on check-in day",
			modify: func(in *BookingInput) { in.BookingPeriod.CheckOutDate = "2025-01-10" },
			field:  "bookingPeriod.checkOutDate",
		},
		{
			name:   "malformed date",
			modify: func(in *BookingInput) { in.BookingPeriod.CheckInDate = "10.01.2025" },
			field:  "bookingPeriod.checkInDate",
		},
		{
			name:   "no rooms",
			modify: func(in *BookingInput) { in.Rooms = []RoomInput{} },
			field:  "rooms",
		},
		{
			name:   "room without adults",
			modify: func(in *BookingInput) { in.Rooms[0].Adults = 0 },
			field:  "rooms[0].adults",
		},
		{
			name:   "unknown room type",
			modify: func(in *BookingInput) { in.Rooms[0].RoomType = "Penthouse" },
			field:  "rooms[0].roomType",
		},
		{
			name:   "zero price",
			modify: func(in *BookingInput) { in.CoreData.TotalPriceCents = 0 },
			field:  "coreData.totalPriceCents",
		},
		{
			name:   "missing first name",
			modify: func(in *BookingInput) { in.GuestInfo.FirstName = "" },
			field:  "guestInfo.firstName",
		},
		{
			name:   "unsupported language",
			modify: func(in *BookingInput) { in.CoreData.GuestFormLanguage = "fr" },
			field:  "coreData.guestFormLanguage",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			hotels := &MockHotelRepository{}
			service := newTestService(repo, hotels, nil, nil, nil)

			input := validInput()
			tc.modify(&input)

			booking, err := service.CreateBooking(context.Background(), "hotel-1", input)

			assert.Nil(t, booking)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			hotels.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_CreateBooking_HotelNotFound(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	service := newTestService(repo, hotels, nil, nil, nil)
	ctx := context.Background()

	hotels.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound).Once()

	booking, err := service.CreateBooking(ctx, "nope", validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrHotelNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_RepositoryError(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	producer := &MockProducer{}
	service := newTestService(repo, hotels, nil, nil, producer)
	ctx := context.Background()

	expectedErr := errors.New("database error")
	hotels.On("GetByID", ctx, "hotel-1").Return(testHotel, nil).Once()
	repo.On("Create", ctx, mock.Anything).Return(expectedErr).Once()

	booking, err := service.CreateBooking(ctx, "hotel-1", validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, expectedErr)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_PublishFailureKeepsBooking(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	producer := &MockProducer{}
	service := newTestService(repo, hotels, nil, nil, producer)
	ctx := context.Background()

	hotels.On("GetByID", ctx, "hotel-1").Return(testHotel, nil).Once()
	repo.On("Create", ctx, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	booking, err := service.CreateBooking(ctx, "hotel-1", validInput())

	require.NoError(t, err)
	assert.NotNil(t, booking)
	producer.AssertNumberOfCalls(t, "Publish", 1)
}

func TestBookingService_UpdateBooking_Success(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	producer := &MockProducer{}
	service := newTestService(repo, hotels, nil, nil, producer)
	ctx := context.Background()

	existing := confirmedBooking()
	input := validInput()
	input.GuestInfo.FirstName = "Maria"
	input.CoreData.Catering = "half_board"
	notes := "  VIP  "
	input.InternalNotes = &notes
	rev := int64(2)
	input.Revision = &rev

	repo.On("GetByID", ctx, "booking-1").Return(existing, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.GuestInfo.FirstName == "Maria" && b.CoreData.Catering == domain.CateringHalfBoard &&
			b.Status == domain.BookingStatusConfirmed && b.Guest != nil && b.Revision == 2 &&
			b.InternalNotes != nil && *b.InternalNotes == "VIP"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).Revision = 3
	}).Return(nil).Once()
	producer.On("Publish", ctx, mock.Anything, "booking-1", eventOfType(kafka.EventBookingUpdated)).Return(nil).Twice()

	booking, err := service.UpdateBooking(ctx, "booking-1", "hotel-1", input)

	require.NoError(t, err)
	assert.Equal(t, int64(3), booking.Revision)
	assert.Equal(t, "Maria", booking.GuestInfo.FirstName)
	assert.Equal(t, "anna@example.com", booking.GuestEmail())
	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_ForeignHotel(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(pendingBooking(), nil).Once()

	booking, err := service.UpdateBooking(ctx, "booking-1", "hotel-2", validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookingService_UpdateBooking_StaleRevision(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(confirmedBooking(), nil).Once()

	input := validInput()
	rev := int64(1)
	input.Revision = &rev

	_, err := service.UpdateBooking(ctx, "booking-1", "hotel-1", input)

	assert.ErrorIs(t, err, ErrConflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookingService_UpdateBooking_PriceLockedAfterGuestSubmit(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(confirmedBooking(), nil).Once()

	input := validInput()
	input.CoreData.TotalPriceCents = 200000

	booking, err := service.UpdateBooking(ctx, "booking-1", "hotel-1", input)

	assert.Nil(t, booking)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "coreData.totalPriceCents")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookingService_UpdateBooking_PriceEditableWhilePending(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	input := validInput()
	input.CoreData.TotalPriceCents = 200000

	repo.On("GetByID", ctx, "booking-1").Return(pendingBooking(), nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.CoreData.TotalPriceCents == 200000 && b.Guest == nil
	})).Return(nil).Once()

	booking, err := service.UpdateBooking(ctx, "booking-1", "hotel-1", input)

	require.NoError(t, err)
	assert.Equal(t, int64(200000), booking.CoreData.TotalPriceCents)
	repo.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_LostRace(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(pendingBooking(), nil).Once()
	repo.On("Update", ctx, mock.Anything).Return(repository.ErrConflict).Once()

	_, err := service.UpdateBooking(ctx, "booking-1", "hotel-1", validInput())

	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookingService_GetBooking_NotFound(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockHotelRepository{}, nil, nil, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

	booking, err := service.GetBooking(ctx, "hotel-1", "missing")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingService_ListBookings_TextFilter(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	service := newTestService(repo, hotels, nil, nil, nil)
	ctx := context.Background()

	confirmed := confirmedBooking()
	other := pendingBooking()
	other.ID = "booking-2"
	other.GuestInfo = domain.GuestInfo{FirstName: "Jonas", LastName: "Weber"}

	filter := domain.BookingFilter{Query: "ANNA@example"}
	hotels.On("GetByID", ctx, "hotel-1").Return(testHotel, nil)
	repo.On("ListByHotel", ctx, "hotel-1", filter).Return([]domain.Booking{*confirmed, *other}, nil).Once()

	bookings, err := service.ListBookings(ctx, "hotel-1", filter)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "booking-1", bookings[0].ID)

	byID := domain.BookingFilter{Query: "king-2"}
	repo.On("ListByHotel", ctx, "hotel-1", byID).Return([]domain.Booking{*confirmed, *other}, nil).Once()

	bookings, err = service.ListBookings(ctx, "hotel-1", byID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "booking-2", bookings[0].ID)

	none := domain.BookingFilter{Query: "zzz"}
	repo.On("ListByHotel", ctx, "hotel-1", none).Return([]domain.Booking{*confirmed, *other}, nil).Once()

	bookings, err = service.ListBookings(ctx, "hotel-1", none)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingService_ListBookings_UnknownHotel(t *testing.T) {
	repo := &MockBookingRepository{}
	hotels := &MockHotelRepository{}
	service := newTestService(repo, hotels, nil, nil, nil)
	ctx := context.Background()

	hotels.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound).Once()

	_, err := service.ListBookings(ctx, "nope", domain.BookingFilter{})

	assert.ErrorIs(t, err, ErrHotelNotFound)
	repo.AssertNotCalled(t, "ListByHotel", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_ChangeStatus(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.BookingStatus
		to      domain.BookingStatus
		allowed bool
	}{
		{"check in", domain.BookingStatusConfirmed, domain.BookingStatusCheckedIn, true},
		{"check out", domain.BookingStatusCheckedIn, domain.BookingStatusCheckedOut, true},
		{"cancel pending", domain.BookingStatusPendingGuest, domain.BookingStatusCancelled, true},
		{"cancel confirmed", domain.BookingStatusConfirmed, domain.BookingStatusCancelled, true},
		{"confirm without guest", domain.BookingStatusPendingGuest, domain.BookingStatusConfirmed, false},
		{"back to pending", domain.BookingStatusConfirmed, domain.BookingStatusPendingGuest, false},
		{"cancel after check out", domain.BookingStatusCheckedOut, domain.BookingStatusCancelled, false},
		{"revive cancelled", domain.BookingStatusCancelled, domain.BookingStatusConfirmed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			producer := &MockProducer{}
			service := newTestService(repo, &MockHotelRepository{}, nil, nil, producer)
			ctx := context.Background()

			current := pendingBooking()
			current.Status = tc.from
			repo.On("GetByID", ctx, "booking-1").Return(current, nil).Once()

			if tc.allowed {
				updated := pendingBooking()
				updated.Status = tc.to
				updated.Revision = 2
				repo.On("UpdateStatus", ctx, "booking-1", int64(1), tc.to).Return(updated, nil).Once()
				producer.On("Publish", ctx, mock.Anything, "booking-1", eventOfType(kafka.EventBookingStatusChanged)).Return(nil)
			}

			booking, err := service.ChangeStatus(ctx, "booking-1", "hotel-1", tc.to)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, booking.Status)
				repo.AssertExpectations(t)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_DeleteBooking_RemovesFilesBestEffort(t *testing.T) {
	repo := &MockBookingRepository{}
	files := &MockFileStore{}
	cache := &MockCache{}
	producer := &MockProducer{}
	service := newTestService(repo, &MockHotelRepository{}, cache, files, producer)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(confirmedBooking(), nil).Once()
	files.On("Delete", ctx, "/files/booking-1/front.png").Return(nil).Once()
	files.On("Delete", ctx, "/files/booking-1/back.png").Return(errors.New("disk error")).Once()
	files.On("Delete", ctx, "/files/booking-1/c-front.png").Return(nil).Once()
	files.On("Delete", ctx, "/files/booking-1/c-back.png").Return(nil).Once()
	files.On("Delete", ctx, "/files/booking-1/proof.pdf").Return(nil).Once()
	cache.On("DeleteDraft", ctx, "token-1").Return(nil).Once()
	repo.On("Delete", ctx, "booking-1", "hotel-1").Return(nil).Once()
	producer.On("Publish", ctx, mock.Anything, "booking-1", eventOfType(kafka.EventBookingDeleted)).Return(nil).Twice()

	err := service.DeleteBooking(ctx, "booking-1", "hotel-1")

	require.NoError(t, err)
	files.AssertExpectations(t)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_DeleteBooking_WithoutGuestData(t *testing.T) {
	repo := &MockBookingRepository{}
	files := &MockFileStore{}
	service := newTestService(repo, &MockHotelRepository{}, nil, files, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(pendingBooking(), nil).Once()
	repo.On("Delete", ctx, "booking-1", "hotel-1").Return(nil).Once()

	require.NoError(t, service.DeleteBooking(ctx, "booking-1", "hotel-1"))
	files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBookingService_DeleteBooking_ForeignHotel(t *testing.T) {
	repo := &MockBookingRepository{}
	files := &MockFileStore{}
	service := newTestService(repo, &MockHotelRepository{}, nil, files, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "booking-1").Return(confirmedBooking(), nil).Once()

	err := service.DeleteBooking(ctx, "booking-1", "hotel-2")

	assert.ErrorIs(t, err, ErrBookingNotFound)
	files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
