package booking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/pkg/validator"
)

type GuestInfoInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type BookingPeriodInput struct {
	CheckInDate  string `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
}

type CoreDataInput struct {
	Catering          string `json:"catering" validate:"required,oneof=none breakfast half_board full_board"`
	TotalPriceCents   int64  `json:"totalPriceCents" validate:"gt=0"`
	GuestFormLanguage string `json:"guestFormLanguage" validate:"required,oneof=de it en"`
}

type RoomInput struct {
	RoomType     string  `json:"roomType" validate:"required,oneof=Standard Family Comfort Superior Economy"`
	Adults       int     `json:"adults" validate:"gte=1"`
	Children     int     `json:"children" validate:"gte=0"`
	Infants      int     `json:"infants" validate:"gte=0"`
	ChildrenAges *string `json:"childrenAges"`
}

// BookingInput is the hotelier form used for both create and edit. Revision
// is optional on edit; when set it must match the stored booking.
type BookingInput struct {
	GuestInfo     GuestInfoInput     `json:"guestInfo"`
	BookingPeriod BookingPeriodInput `json:"bookingPeriod"`
	CoreData      CoreDataInput      `json:"coreData"`
	Rooms         []RoomInput        `json:"rooms" validate:"min=1,dive"`
	InternalNotes *string            `json:"internalNotes"`
	Revision      *int64             `json:"revision,omitempty"`
}

// bookingFields is the validated, parsed form of a BookingInput.
type bookingFields struct {
	guestInfo     domain.GuestInfo
	period        domain.BookingPeriod
	coreData      domain.CoreData
	rooms         []domain.RoomConfiguration
	internalNotes *string
}

func (in BookingInput) parse() (bookingFields, error) {
	fields := validator.Validate(in)
	if fields == nil {
		fields = map[string]string{}
	}

	var period domain.BookingPeriod
	checkIn, errIn := time.Parse(domain.DateLayout, in.BookingPeriod.CheckInDate)
	checkOut, errOut := time.Parse(domain.DateLayout, in.BookingPeriod.CheckOutDate)
	if errIn == nil && errOut == nil {
		if !checkOut.After(checkIn) {
			fields["bookingPeriod.checkOutDate"] = "must be after checkInDate"
		}
		period = domain.BookingPeriod{CheckInDate: checkIn, CheckOutDate: checkOut}
	}

	if len(fields) > 0 {
		return bookingFields{}, &ValidationError{Fields: fields}
	}

	rooms := make([]domain.RoomConfiguration, 0, len(in.Rooms))
	for _, r := range in.Rooms {
		rooms = append(rooms, domain.RoomConfiguration{
			RoomType:     domain.RoomType(r.RoomType),
			Adults:       r.Adults,
			Children:     r.Children,
			Infants:      r.Infants,
			ChildrenAges: trimmedOrNil(r.ChildrenAges),
		})
	}

	return bookingFields{
		guestInfo: domain.GuestInfo{
			FirstName: strings.TrimSpace(in.GuestInfo.FirstName),
			LastName:  strings.TrimSpace(in.GuestInfo.LastName),
		},
		period: period,
		coreData: domain.CoreData{
			Catering:          domain.Catering(in.CoreData.Catering),
			TotalPriceCents:   in.CoreData.TotalPriceCents,
			GuestFormLanguage: in.CoreData.GuestFormLanguage,
		},
		rooms:         rooms,
		internalNotes: trimmedOrNil(in.InternalNotes),
	}, nil
}

func (f bookingFields) applyTo(b *domain.Booking) {
	b.GuestInfo = f.guestInfo
	b.Period = f.period
	b.CoreData = f.coreData
	b.Rooms = f.rooms
	b.InternalNotes = f.internalNotes
}

type GuestDataInput struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required"`
	Age       *int    `json:"age" validate:"omitempty,gt=0"`
	Notes     *string `json:"notes"`
}

type CompanionInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// GuestSubmissionInput is the wizard payload without its documents.
type GuestSubmissionInput struct {
	GuestData     GuestDataInput   `json:"guestData"`
	Companions    []CompanionInput `json:"companions" validate:"dive"`
	PaymentOption string           `json:"paymentOption" validate:"required,oneof=deposit full"`
	AcceptedTerms bool             `json:"acceptedTerms" validate:"eq=true"`
}

type DocumentPair struct {
	IDFront *domain.FileUpload
	IDBack  *domain.FileUpload
}

// GuestFiles holds the documents of a submission. Companions is indexed like
// GuestSubmissionInput.Companions.
type GuestFiles struct {
	Guest        DocumentPair
	Companions   []DocumentPair
	PaymentProof *domain.FileUpload
}

func (in GuestSubmissionInput) validate(files GuestFiles) error {
	fields := validator.Validate(in)
	if fields == nil {
		fields = map[string]string{}
	}

	requireFile(fields, "guestData.idFrontFile", files.Guest.IDFront)
	requireFile(fields, "guestData.idBackFile", files.Guest.IDBack)
	requireFile(fields, "paymentProofFile", files.PaymentProof)
	for i := range in.Companions {
		var docs DocumentPair
		if i < len(files.Companions) {
			docs = files.Companions[i]
		}
		requireFile(fields, fmt.Sprintf("companions[%d].idFrontFile", i), docs.IDFront)
		requireFile(fields, fmt.Sprintf("companions[%d].idBackFile", i), docs.IDBack)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func requireFile(fields map[string]string, key string, f *domain.FileUpload) {
	if f == nil || f.Content == nil || f.Size == 0 {
		fields[key] = "is required"
	}
}

// DraftInput is the wizard state a guest wants to resume later. Documents are
// never part of a draft.
type DraftInput struct {
	Step int             `json:"step" validate:"gte=0,lte=10"`
	Data json.RawMessage `json:"data" validate:"required"`
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
