package domain

import (
	"encoding/json"
	"io"
	"time"
)

type PaymentOption string

const (
	PaymentOptionDeposit PaymentOption = "deposit"
	PaymentOptionFull    PaymentOption = "full"
)

// DepositPercent is the share of the total price due for a deposit.
const DepositPercent = 30

// AmountDue returns the cents the guest has to pay for the chosen option.
// Deposits are rounded half up to the cent.
func AmountDue(option PaymentOption, totalPriceCents int64) int64 {
	if option == PaymentOptionDeposit {
		return (totalPriceCents*DepositPercent + 50) / 100
	}
	return totalPriceCents
}

type GuestData struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Age        *int    `json:"age"`
	IDFrontURL string  `json:"idFrontUrl"`
	IDBackURL  string  `json:"idBackUrl"`
	Notes      *string `json:"notes"`
}

type Companion struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	IDFrontURL string `json:"idFrontUrl"`
	IDBackURL  string `json:"idBackUrl"`
}

type PaymentDetails struct {
	PaymentOption   PaymentOption `json:"paymentOption"`
	AmountDueCents  int64         `json:"amountDueCents"`
	PaymentProofURL string        `json:"paymentProofUrl"`
}

// GuestSubmission is everything the guest hands in through the wizard. It is
// written in one piece or not at all.
type GuestSubmission struct {
	GuestData  GuestData      `json:"guestData"`
	Companions []Companion    `json:"companions"`
	Payment    PaymentDetails `json:"paymentDetails"`
}

// GuestDraft is the wizard state a guest saved before submitting.
type GuestDraft struct {
	Step    int             `json:"step"`
	Data    json.RawMessage `json:"data"`
	SavedAt time.Time       `json:"savedAt"`
}

// FileUpload is a document handed in by the guest.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
