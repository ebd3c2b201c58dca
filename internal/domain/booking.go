package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingGuest BookingStatus = "Pending Guest Information"
	BookingStatusConfirmed    BookingStatus = "Confirmed"
	BookingStatusCheckedIn    BookingStatus = "CheckedIn"
	BookingStatusCheckedOut   BookingStatus = "CheckedOut"
	BookingStatusCancelled    BookingStatus = "Cancelled"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type Catering string

const (
	CateringNone      Catering = "none"
	CateringBreakfast Catering = "breakfast"
	CateringHalfBoard Catering = "half_board"
	CateringFullBoard Catering = "full_board"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "Standard"
	RoomTypeFamily   RoomType = "Family"
	RoomTypeComfort  RoomType = "Comfort"
	RoomTypeSuperior RoomType = "Superior"
	RoomTypeEconomy  RoomType = "Economy"
)

type GuestInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type BookingPeriod struct {
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
}

// Nights is the number of nights between check-in and check-out.
func (p BookingPeriod) Nights() int {
	return int(p.CheckOutDate.Sub(p.CheckInDate).Hours() / 24)
}

type CoreData struct {
	Catering          Catering `json:"catering"`
	TotalPriceCents   int64    `json:"totalPriceCents"`
	GuestFormLanguage string   `json:"guestFormLanguage"`
}

type RoomConfiguration struct {
	RoomType     RoomType `json:"roomType"`
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	Infants      int      `json:"infants"`
	ChildrenAges *string  `json:"childrenAges"`
}

// Booking is owned by exactly one hotel. Guest is nil until the guest
// submission lands; Revision grows by one on every write.
type Booking struct {
	ID            string
	HotelID       string
	Status        BookingStatus
	Token         string
	GuestInfo     GuestInfo
	Period        BookingPeriod
	CoreData      CoreData
	Rooms         []RoomConfiguration
	InternalNotes *string
	Guest         *GuestSubmission
	Revision      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRedeemable reports whether the guest token can still be used for the one
// guest submission.
func (b *Booking) IsRedeemable() bool {
	return b.Status == BookingStatusPendingGuest && b.Guest == nil
}

// RoomTypes returns the room type of every room in booking order.
func (b *Booking) RoomTypes() []string {
	types := make([]string, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		types = append(types, string(r.RoomType))
	}
	return types
}

// GuestEmail is empty while the booking is unsubmitted.
func (b *Booking) GuestEmail() string {
	if b.Guest == nil {
		return ""
	}
	return b.Guest.GuestData.Email
}

// FileRefs lists every stored document the booking references.
func (b *Booking) FileRefs() []string {
	if b.Guest == nil {
		return nil
	}
	refs := []string{b.Guest.GuestData.IDFrontURL, b.Guest.GuestData.IDBackURL}
	for _, c := range b.Guest.Companions {
		refs = append(refs, c.IDFrontURL, c.IDBackURL)
	}
	refs = append(refs, b.Guest.Payment.PaymentProofURL)

	out := refs[:0]
	for _, ref := range refs {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingGuest: {BookingStatusCancelled},
	BookingStatusConfirmed:    {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn:    {BookingStatusCheckedOut},
}

// CanTransition reports whether a hotelier may move a booking from one status
// to another. Pending -> Confirmed only happens through the guest submission.
func CanTransition(from, to BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseBookingStatus accepts the exact status names.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPendingGuest, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled:
		return st, true
	}
	return "", false
}

// CountsTowardRevenue is true for bookings the guest has confirmed and that
// were not cancelled or already closed.
func (s BookingStatus) CountsTowardRevenue() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCheckedIn
}

// IsGuestConfirmed is true once the guest confirmed, including stays that
// have started or ended.
func (s BookingStatus) IsGuestConfirmed() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCheckedIn || s == BookingStatusCheckedOut
}
