package domain

import "strings"

// BookingFilter narrows the hotelier booking list. An empty Status (or "all")
// keeps every status.
type BookingFilter struct {
	Query  string
	Status BookingStatus
}

func (f BookingFilter) HasStatus() bool {
	return f.Status != "" && f.Status != "all"
}

// Matches applies the free-text part of the filter: a case-insensitive
// substring over guest names, guest email and booking id.
func (f BookingFilter) Matches(b *Booking) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{b.GuestInfo.FirstName, b.GuestInfo.LastName, b.GuestEmail(), b.ID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
