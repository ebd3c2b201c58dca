package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/kafka"
	"github.com/Domenick1991/guestportal/internal/pkg/validator"
	"github.com/Domenick1991/guestportal/internal/repository"
	"github.com/google/uuid"
)

// GuestAccess is what the wizard needs to render for a redeemable token.
type GuestAccess struct {
	Booking         *domain.Booking
	Hotel           *domain.Hotel
	Draft           *domain.GuestDraft
	DepositDueCents int64
	FullDueCents    int64
}

type Confirmation struct {
	Booking *domain.Booking
	Hotel   *domain.Hotel
	Nights  int
}

// ResolveGuestAccess returns ErrInvalidLink for unknown tokens, for bookings
// that are no longer waiting for the guest and for bookings whose hotel is
// gone.
func (s *BookingService) ResolveGuestAccess(ctx context.Context, token string) (*GuestAccess, error) {
	booking, err := s.redeemable(ctx, token)
	if err != nil {
		return nil, err
	}
	hotel, err := s.hotel(ctx, booking.HotelID)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			return nil, ErrInvalidLink
		}
		return nil, err
	}

	access := &GuestAccess{
		Booking:         booking,
		Hotel:           hotel,
		DepositDueCents: domain.AmountDue(domain.PaymentOptionDeposit, booking.CoreData.TotalPriceCents),
		FullDueCents:    domain.AmountDue(domain.PaymentOptionFull, booking.CoreData.TotalPriceCents),
	}
	if s.cache != nil {
		draft, err := s.cache.GetDraft(ctx, token)
		if err != nil {
			log.Printf("WARNING: failed to load draft of booking %s: %v", booking.ID, err)
		}
		access.Draft = draft
	}
	return access, nil
}

// ResolveConfirmation returns ErrNotConfirmed unless the guest has submitted
// their data and the booking was not cancelled since.
func (s *BookingService) ResolveConfirmation(ctx context.Context, token string) (*Confirmation, error) {
	if token == "" {
		return nil, ErrNotConfirmed
	}
	booking, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotConfirmed
		}
		return nil, fmt.Errorf("load booking by token: %w", err)
	}
	if booking.Guest == nil || !booking.Status.IsGuestConfirmed() {
		return nil, ErrNotConfirmed
	}

	hotel, err := s.hotel(ctx, booking.HotelID)
	if err != nil {
		return nil, err
	}
	return &Confirmation{Booking: booking, Hotel: hotel, Nights: booking.Period.Nights()}, nil
}

func (s *BookingService) SaveDraft(ctx context.Context, token string, input DraftInput) (*domain.GuestDraft, error) {
	if fields := validator.Validate(input); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	booking, err := s.redeemable(ctx, token)
	if err != nil {
		return nil, err
	}

	draft := domain.GuestDraft{Step: input.Step, Data: input.Data, SavedAt: s.now().UTC()}
	if s.cache == nil {
		return &draft, nil
	}
	if err := s.cache.SaveDraft(ctx, token, draft); err != nil {
		log.Printf("WARNING: draft of booking %s not persisted: %v", booking.ID, err)
	}
	return &draft, nil
}

// SubmitGuestData stores the guest's data, documents and payment choice and
// confirms the booking. It succeeds at most once per booking.
func (s *BookingService) SubmitGuestData(ctx context.Context, bookingID string, input GuestSubmissionInput, files GuestFiles) (*domain.Booking, error) {
	if err := input.validate(files); err != nil {
		return nil, err
	}

	if s.cache != nil {
		owner := uuid.NewString()
		ok, err := s.cache.AcquireSubmitLock(ctx, bookingID, owner, s.submitLockTTL)
		switch {
		case err != nil:
			// SubmitGuest still writes at most once.
			log.Printf("WARNING: submit lock unavailable for booking %s, continuing without it: %v", bookingID, err)
		case !ok:
			return nil, ErrSubmissionInProgress
		default:
			defer func() {
				if err := s.cache.ReleaseSubmitLock(context.WithoutCancel(ctx), bookingID, owner); err != nil {
					log.Printf("WARNING: failed to release submit lock of booking %s: %v", bookingID, err)
				}
			}()
		}
	}

	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidLink
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if !current.IsRedeemable() {
		return nil, ErrInvalidLink
	}

	submission, stored, err := s.storeDocuments(ctx, current.ID, input, files)
	if err != nil {
		s.removeFiles(context.WithoutCancel(ctx), current.ID, stored)
		return nil, err
	}
	submission.Payment.AmountDueCents = domain.AmountDue(submission.Payment.PaymentOption, current.CoreData.TotalPriceCents)

	updated, err := s.bookings.SubmitGuest(ctx, current.ID, current.Revision, submission)
	if err != nil {
		s.removeFiles(context.WithoutCancel(ctx), current.ID, stored)
		return nil, s.explainLostSubmit(ctx, current.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteDraft(ctx, updated.Token); err != nil {
			log.Printf("WARNING: failed to drop draft of booking %s: %v", updated.ID, err)
		}
	}

	log.Printf("guest data submitted booking_id=%s payment_option=%s amount_due_cents=%d",
		updated.ID, submission.Payment.PaymentOption, submission.Payment.AmountDueCents)

	hotelName := ""
	if hotel, err := s.hotel(ctx, updated.HotelID); err == nil {
		hotelName = hotel.Name
	}
	s.publish(ctx, kafka.EventGuestSubmitted, updated, hotelName)
	return updated, nil
}

// storeDocuments uploads the documents one by one: guest front and back, the
// payment proof, then each companion. It returns the refs stored so far even
// on failure.
func (s *BookingService) storeDocuments(ctx context.Context, bookingID string, input GuestSubmissionInput, files GuestFiles) (domain.GuestSubmission, []string, error) {
	if s.files == nil {
		return domain.GuestSubmission{}, nil, errors.New("file storage is not configured")
	}

	var stored []string
	save := func(field string, f *domain.FileUpload) (string, error) {
		ref, err := s.files.Save(ctx, bookingID, *f)
		if err != nil {
			return "", &UploadError{Field: field, Err: err}
		}
		stored = append(stored, ref)
		return ref, nil
	}

	var err error
	submission := domain.GuestSubmission{
		GuestData: domain.GuestData{
			FirstName: strings.TrimSpace(input.GuestData.FirstName),
			LastName:  strings.TrimSpace(input.GuestData.LastName),
			Email:     strings.TrimSpace(input.GuestData.Email),
			Phone:     strings.TrimSpace(input.GuestData.Phone),
			Age:       input.GuestData.Age,
			Notes:     trimmedOrNil(input.GuestData.Notes),
		},
		Companions: make([]domain.Companion, 0, len(input.Companions)),
		Payment: domain.PaymentDetails{
			PaymentOption: domain.PaymentOption(input.PaymentOption),
		},
	}

	if submission.GuestData.IDFrontURL, err = save("guestData.idFrontFile", files.Guest.IDFront); err != nil {
		return submission, stored, err
	}
	if submission.GuestData.IDBackURL, err = save("guestData.idBackFile", files.Guest.IDBack); err != nil {
		return submission, stored, err
	}
	if submission.Payment.PaymentProofURL, err = save("paymentProofFile", files.PaymentProof); err != nil {
		return submission, stored, err
	}

	for i, c := range input.Companions {
		companion := domain.Companion{
			FirstName: strings.TrimSpace(c.FirstName),
			LastName:  strings.TrimSpace(c.LastName),
		}
		if companion.IDFrontURL, err = save(fmt.Sprintf("companions[%d].idFrontFile", i), files.Companions[i].IDFront); err != nil {
			return submission, stored, err
		}
		if companion.IDBackURL, err = save(fmt.Sprintf("companions[%d].idBackFile", i), files.Companions[i].IDBack); err != nil {
			return submission, stored, err
		}
		submission.Companions = append(submission.Companions, companion)
	}
	return submission, stored, nil
}

// explainLostSubmit maps a failed conditional submit. A booking that is no
// longer redeemable means the link was already used.
func (s *BookingService) explainLostSubmit(ctx context.Context, bookingID string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrInvalidLink
	case errors.Is(err, repository.ErrConflict):
		latest, getErr := s.bookings.GetByID(ctx, bookingID)
		if getErr != nil || !latest.IsRedeemable() {
			return ErrInvalidLink
		}
		return ErrConflict
	default:
		return fmt.Errorf("submit guest data: %w", err)
	}
}

func (s *BookingService) redeemable(ctx context.Context, token string) (*domain.Booking, error) {
	if token == "" {
		return nil, ErrInvalidLink
	}
	booking, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidLink
		}
		return nil, fmt.Errorf("load booking by token: %w", err)
	}
	if !booking.IsRedeemable() {
		return nil, ErrInvalidLink
	}
	return booking, nil
}
