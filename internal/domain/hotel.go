package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the bookkeeping columns shared by every persisted entity.
// A non-nil DeletedAt marks a soft-deleted row.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type City struct {
	ID    uuid.UUID
	Name  string
	State string
	Audit
}

type Hotel struct {
	ID      uuid.UUID
	Name    string
	Address string
	CityID  uuid.UUID
	City    *City // joined on reads
	Audit
}

type Room struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Image    string
	HotelID  uuid.UUID
	Hotel    *Hotel // joined on reads
	Audit
}
