package app

import (
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

/********** request DTOs **********/

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt input limit
}

type CityRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	State string `json:"state" validate:"required,max=50"`
}

type HotelRequest struct {
	Name    string    `json:"name" validate:"required,max=150"`
	Address string    `json:"address" validate:"required,max=255"`
	CityID  uuid.UUID `json:"cityId" validate:"required"`
}

type RoomRequest struct {
	Name     string    `json:"name" validate:"required,max=100"`
	Capacity int       `json:"capacity" validate:"required,min=1"`
	Image    string    `json:"image" validate:"omitempty,url"`
	HotelID  uuid.UUID `json:"hotelId" validate:"required"`
}

type BookingInput struct {
	CheckIn       string    `json:"checkIn" validate:"required"`
	CheckOut      string    `json:"checkOut" validate:"required"`
	GuestQuantity int       `json:"guestQuantity" validate:"required,min=1"`
	RoomID        uuid.UUID `json:"roomId" validate:"required"`
}

type GeoRequest struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
}

/********** response DTOs **********/

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	UserType string    `json:"userType"`
}

type CityResponse struct {
	CityID uuid.UUID `json:"cityId"`
	Name   string    `json:"name"`
	State  string    `json:"state"`
}

type HotelResponse struct {
	HotelID  uuid.UUID `json:"hotelId"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	CityID   uuid.UUID `json:"cityId"`
	CityName string    `json:"cityName"`
	State    string    `json:"state"`
}

type RoomResponse struct {
	RoomID   uuid.UUID      `json:"roomId"`
	Name     string         `json:"name"`
	Capacity int            `json:"capacity"`
	Image    string         `json:"image,omitempty"`
	Hotel    *HotelResponse `json:"hotel,omitempty"`
}

type BookingResponse struct {
	BookingID     uuid.UUID     `json:"bookingId"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	GuestQuantity int           `json:"guestQuantity"`
	Room          *RoomResponse `json:"room,omitempty"`
}

type GeoHotelResponse struct {
	HotelID  uuid.UUID `json:"hotelId"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	CityName string    `json:"cityName"`
	State    string    `json:"state"`
	Distance int       `json:"distance"`
}

type GeoStatusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

/********** request -> domain **********/

func (in BookingInput) ToDomain() domain.BookingRequest {
	return domain.BookingRequest{
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		GuestQuantity: in.GuestQuantity,
		RoomID:        in.RoomID,
	}
}

func (in GeoRequest) ToAddress(country string) domain.AddressQuery {
	return domain.AddressQuery{Street: in.Address, City: in.City, State: in.State, Country: country}
}

/********** domain -> response **********/

func mapUser(u domain.User) UserResponse {
	return UserResponse{UserID: u.ID, Name: u.Name, Email: u.Email, UserType: u.Role}
}

func mapCity(c domain.City) CityResponse {
	return CityResponse{CityID: c.ID, Name: c.Name, State: c.State}
}

func mapHotel(h domain.Hotel) HotelResponse {
	out := HotelResponse{HotelID: h.ID, Name: h.Name, Address: h.Address, CityID: h.CityID}
	if h.City != nil {
		out.CityName = h.City.Name
		out.State = h.City.State
	}
	return out
}

func mapRoom(r domain.Room) RoomResponse {
	out := RoomResponse{RoomID: r.ID, Name: r.Name, Capacity: r.Capacity, Image: r.Image}
	if r.Hotel != nil {
		h := mapHotel(*r.Hotel)
		out.Hotel = &h
	}
	return out
}

func MapBooking(b domain.Booking) BookingResponse {
	out := BookingResponse{
		BookingID:     b.ID,
		CheckIn:       b.CheckIn.UTC(),
		CheckOut:      b.CheckOut.UTC(),
		GuestQuantity: b.GuestQuantity,
	}
	if b.Room != nil {
		r := mapRoom(*b.Room)
		out.Room = &r
	}
	return out
}

func MapBookings(bs []domain.Booking) []BookingResponse {
	return mapSlice(bs, MapBooking)
}

func mapHotelDistance(d domain.HotelDistance) GeoHotelResponse {
	return GeoHotelResponse{
		HotelID:  d.HotelID,
		Name:     d.Name,
		Address:  d.Address,
		CityName: d.CityName,
		State:    d.State,
		Distance: d.DistanceKm,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
