package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/guestportal/internal/kafka"
)

type ConfirmationGenerator interface {
	GenerateConfirmation(ctx context.Context, input ConfirmationInput) (*ConfirmationEmail, error)
}

// Sender reacts to booking events. Only guest submissions produce an email;
// delivery is a log line until a mail transport exists.
type Sender struct {
	generator ConfirmationGenerator
}

// NewSender accepts a nil generator; events are then logged and skipped.
func NewSender(generator ConfirmationGenerator) *Sender {
	return &Sender{generator: generator}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type != kafka.EventGuestSubmitted {
		log.Printf("email: ignoring %s for booking %s", event.Type, event.BookingID)
		return nil
	}
	if s.generator == nil {
		log.Printf("email: generator disabled, skipping confirmation for booking %s", event.BookingID)
		return nil
	}

	msg, err := s.generator.GenerateConfirmation(ctx, InputFromEvent(event))
	if err != nil {
		return fmt.Errorf("confirmation email for booking %s: %w", event.BookingID, err)
	}

	log.Printf("email: to=%s booking=%s subject=%q\n%s", event.Email, event.BookingID, msg.Subject, msg.Body)
	return nil
}

func InputFromEvent(event kafka.BookingEvent) ConfirmationInput {
	return ConfirmationInput{
		HotelName:       event.HotelName,
		GuestFirstName:  event.GuestFirstName,
		GuestLastName:   event.GuestLastName,
		CheckInDate:     event.CheckInDate,
		CheckOutDate:    event.CheckOutDate,
		RoomType:        strings.Join(event.RoomTypes, ", "),
		BookingID:       event.BookingID,
		SpecialRequests: event.SpecialRequests,
	}
}
