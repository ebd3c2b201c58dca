package booking

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/kafka"
)

// publish sends the event to the booking topic and, if configured, to the
// notifications topic. Failures are logged; the write they follow stands.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, hotelName string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event := newEvent(eventType, booking, hotelName, s.now().UTC())
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}

func newEvent(eventType string, booking *domain.Booking, hotelName string, at time.Time) kafka.BookingEvent {
	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      booking.ID,
		HotelID:        booking.HotelID,
		HotelName:      hotelName,
		Token:          booking.Token,
		Status:         string(booking.Status),
		GuestFirstName: booking.GuestInfo.FirstName,
		GuestLastName:  booking.GuestInfo.LastName,
		CheckInDate:    booking.Period.CheckInDate.Format(domain.DateLayout),
		CheckOutDate:   booking.Period.CheckOutDate.Format(domain.DateLayout),
		RoomTypes:      booking.RoomTypes(),
		OccurredAt:     at,
	}
	if booking.Guest != nil {
		event.GuestFirstName = booking.Guest.GuestData.FirstName
		event.GuestLastName = booking.Guest.GuestData.LastName
		event.Email = booking.Guest.GuestData.Email
		if booking.Guest.GuestData.Notes != nil {
			event.SpecialRequests = *booking.Guest.GuestData.Notes
		}
	}
	return event
}
