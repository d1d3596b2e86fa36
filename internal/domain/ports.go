package domain

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type CityRepository interface {
	CreateCity(ctx context.Context, c City) error
	UpdateCity(ctx context.Context, c City) error
	GetCity(ctx context.Context, id uuid.UUID) (City, error)
	ListCities(ctx context.Context) ([]City, error)
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) error
	// Read paths join the owning city.
	GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	// Read paths join hotel and city.
	GetRoom(ctx context.Context, id uuid.UUID) (Room, error)
	ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]Room, error)
}

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	// Reads are scoped to the owner's email and join room, hotel and city.
	ListBookingsByEmail(ctx context.Context, email string) ([]Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID, email string) (Booking, error)
}

// Geocoder resolves address text to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, q AddressQuery) (Coordinate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
