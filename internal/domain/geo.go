package domain

import "github.com/google/uuid"

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// AddressQuery is the input of a forward geocode. Country comes from config.
type AddressQuery struct {
	Street  string
	City    string
	State   string
	Country string
}

type HotelDistance struct {
	HotelID    uuid.UUID
	Name       string
	Address    string
	CityName   string
	State      string
	DistanceKm int
}

type GeoStatus struct {
	Status  int
	Message string
}
