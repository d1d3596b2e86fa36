package app

import (
	"time"

	"hotel_booking/internal/domain"
)

// BookingDateLayout is dd/MM/yyyy HH:mm:ss.
const BookingDateLayout = "02/01/2006 15:04:05"

// BookingPolicy validates raw booking input. Dates are read as wall-clock
// times in loc and handed back in UTC.
type BookingPolicy struct {
	loc *time.Location
}

func NewBookingPolicy(loc *time.Location) BookingPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return BookingPolicy{loc: loc}
}

func (p BookingPolicy) ValidateAndParse(req domain.BookingRequest) (domain.BookingDates, error) {
	in, err := p.parse("checkIn", req.CheckIn)
	if err != nil {
		return domain.BookingDates{}, err
	}
	out, err := p.parse("checkOut", req.CheckOut)
	if err != nil {
		return domain.BookingDates{}, err
	}
	return domain.BookingDates{CheckIn: in, CheckOut: out}, nil
}

func (p BookingPolicy) parse(field, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(BookingDateLayout, raw, p.loc)
	// time.Parse accepts a single-digit hour for "15"; the round trip
	// rejects anything that is not the exact two-digit form.
	if err != nil || t.Format(BookingDateLayout) != raw {
		e := &domain.InvalidDateError{Field: field, Raw: raw}
		if err == nil && wellFormed(raw) {
			e.Reason = "local time does not exist in " + p.loc.String() + " (clock change)"
		}
		return time.Time{}, e
	}
	return t.UTC(), nil
}

// wellFormed reports whether raw is an exact layout match as a zone-free wall time.
func wellFormed(raw string) bool {
	t, err := time.Parse(BookingDateLayout, raw)
	return err == nil && t.Format(BookingDateLayout) == raw
}

func HasEnoughCapacity(guestQuantity, capacity int) bool {
	return capacity >= guestQuantity
}
