package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking is always stored with UTC check-in/check-out instants.
type Booking struct {
	ID            uuid.UUID
	CheckIn       time.Time
	CheckOut      time.Time
	GuestQuantity int
	UserID        uuid.UUID
	RoomID        uuid.UUID
	User          *User
	Room          *Room
	Audit
}

// BookingRequest is the raw client input for a create or update.
type BookingRequest struct {
	CheckIn       string
	CheckOut      string
	GuestQuantity int
	RoomID        uuid.UUID
}

// BookingDates holds a validated, UTC-normalized stay window.
type BookingDates struct {
	CheckIn  time.Time
	CheckOut time.Time
}
