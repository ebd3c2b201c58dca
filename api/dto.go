package api

import (
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/service/booking"
)

type periodResponse struct {
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Nights       int    `json:"nights"`
}

type bookingResponse struct {
	ID             string                     `json:"id"`
	HotelID        string                     `json:"hotelId"`
	Status         string                     `json:"status"`
	GuestURL       string                     `json:"guestUrl,omitempty"`
	GuestInfo      domain.GuestInfo           `json:"guestInfo"`
	BookingPeriod  periodResponse             `json:"bookingPeriod"`
	CoreData       domain.CoreData            `json:"coreData"`
	Rooms          []domain.RoomConfiguration `json:"rooms"`
	InternalNotes  *string                    `json:"internalNotes"`
	GuestData      *domain.GuestData          `json:"guestData"`
	Companions     []domain.Companion         `json:"companions"`
	PaymentDetails *domain.PaymentDetails     `json:"paymentDetails"`
	Revision       int64                      `json:"revision"`
	CreatedAt      string                     `json:"createdAt"`
	UpdatedAt      string                     `json:"updatedAt"`
}

func period(p domain.BookingPeriod) periodResponse {
	return periodResponse{
		CheckInDate:  p.CheckInDate.Format(domain.DateLayout),
		CheckOutDate: p.CheckOutDate.Format(domain.DateLayout),
		Nights:       p.Nights(),
	}
}

func toBookingResponse(b *domain.Booking, guestURL string) bookingResponse {
	resp := bookingResponse{
		ID:            b.ID,
		HotelID:       b.HotelID,
		Status:        string(b.Status),
		GuestURL:      guestURL,
		GuestInfo:     b.GuestInfo,
		BookingPeriod: period(b.Period),
		CoreData:      b.CoreData,
		Rooms:         b.Rooms,
		InternalNotes: b.InternalNotes,
		Companions:    []domain.Companion{},
		Revision:      b.Revision,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if b.Guest != nil {
		guest := b.Guest.GuestData
		payment := b.Guest.Payment
		resp.GuestData = &guest
		resp.PaymentDetails = &payment
		if b.Guest.Companions != nil {
			resp.Companions = b.Guest.Companions
		}
	}
	return resp
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i], ""))
	}
	return out
}

// toBookingForm turns a booking back into the form the hotelier edits.
func toBookingForm(b *domain.Booking) booking.BookingInput {
	rooms := make([]booking.RoomInput, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		rooms = append(rooms, booking.RoomInput{
			RoomType:     string(r.RoomType),
			Adults:       r.Adults,
			Children:     r.Children,
			Infants:      r.Infants,
			ChildrenAges: r.ChildrenAges,
		})
	}
	revision := b.Revision
	return booking.BookingInput{
		GuestInfo: booking.GuestInfoInput{FirstName: b.GuestInfo.FirstName, LastName: b.GuestInfo.LastName},
		BookingPeriod: booking.BookingPeriodInput{
			CheckInDate:  b.Period.CheckInDate.Format(domain.DateLayout),
			CheckOutDate: b.Period.CheckOutDate.Format(domain.DateLayout),
		},
		CoreData: booking.CoreDataInput{
			Catering:          string(b.CoreData.Catering),
			TotalPriceCents:   b.CoreData.TotalPriceCents,
			GuestFormLanguage: b.CoreData.GuestFormLanguage,
		},
		Rooms:         rooms,
		InternalNotes: b.InternalNotes,
		Revision:      &revision,
	}
}

// guestBookingResponse is the guest-facing view of a booking. Internal notes
// never leave the hotelier side.
type guestBookingResponse struct {
	ID            string                     `json:"id"`
	HotelID       string                     `json:"hotelId"`
	HotelName     string                     `json:"hotelName"`
	GuestInfo     domain.GuestInfo           `json:"guestInfo"`
	BookingPeriod periodResponse             `json:"bookingPeriod"`
	CoreData      domain.CoreData            `json:"coreData"`
	Rooms         []domain.RoomConfiguration `json:"rooms"`
}

func toGuestBooking(b *domain.Booking, hotel *domain.Hotel) guestBookingResponse {
	return guestBookingResponse{
		ID:            b.ID,
		HotelID:       hotel.ID,
		HotelName:     hotel.Name,
		GuestInfo:     b.GuestInfo,
		BookingPeriod: period(b.Period),
		CoreData:      b.CoreData,
		Rooms:         b.Rooms,
	}
}

type guestAccessResponse struct {
	Booking         guestBookingResponse `json:"booking"`
	Draft           *domain.GuestDraft   `json:"draft"`
	DepositDueCents int64                `json:"depositDueCents"`
	FullDueCents    int64                `json:"fullDueCents"`
}

type confirmationResponse struct {
	Booking        guestBookingResponse  `json:"booking"`
	GuestData      domain.GuestData      `json:"guestData"`
	Companions     []domain.Companion    `json:"companions"`
	PaymentDetails domain.PaymentDetails `json:"paymentDetails"`
	Nights         int                   `json:"nights"`
}

type dashboardResponse struct {
	Hotel                 domain.Hotel      `json:"hotel"`
	TodaysArrivals        int               `json:"todaysArrivals"`
	TodaysDepartures      int               `json:"todaysDepartures"`
	RevenueThisMonthCents int64             `json:"revenueThisMonthCents"`
	NewBookingsThisMonth  int               `json:"newBookingsThisMonth"`
	RecentActivities      []bookingResponse `json:"recentActivities"`
}
