package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

const (
	citiesKey = "cities"
	hotelsKey = "hotels"
)

func hotelKey(id uuid.UUID) string { return "hotel:" + id.String() }

// CatalogService serves cities, hotels and rooms. Listing reads are
// cache-aside; writes evict the entries they make stale.
type CatalogService struct {
	cities   domain.CityRepository
	hotels   domain.HotelRepository
	rooms    domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewCatalogService(c domain.CityRepository, h domain.HotelRepository, r domain.RoomRepository, cache domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{cities: c, hotels: h, rooms: r, cache: cache, cacheTTL: ttl, now: time.Now}
}

/********** cities **********/

func (s *CatalogService) ListCities(ctx context.Context) ([]CityResponse, error) {
	var out []CityResponse
	if s.cacheGet(ctx, citiesKey, &out) {
		return out, nil
	}
	cs, err := s.cities.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	out = mapSlice(cs, mapCity)
	s.cacheSet(ctx, citiesKey, out)
	return out, nil
}

func (s *CatalogService) CreateCity(ctx context.Context, in CityRequest) (CityResponse, error) {
	if err := Validate(in); err != nil {
		return CityResponse{}, err
	}
	now := s.now().UTC()
	c := domain.City{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(in.Name),
		State: strings.TrimSpace(in.State),
		Audit: domain.Audit{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.cities.CreateCity(ctx, c); err != nil {
		return CityResponse{}, fmt.Errorf("create city: %w", err)
	}
	s.invalidate(ctx, citiesKey)
	return mapCity(c), nil
}

// UpdateCity renames a city. Hotel views embed the city, so every cached
// hotel of that city is evicted too.
func (s *CatalogService) UpdateCity(ctx context.Context, id uuid.UUID, in CityRequest) (CityResponse, error) {
	if err := Validate(in); err != nil {
		return CityResponse{}, err
	}
	c, err := s.cities.GetCity(ctx, id)
	if err != nil {
		return CityResponse{}, fmt.Errorf("city %s: %w", id, err)
	}
	c.Name = strings.TrimSpace(in.Name)
	c.State = strings.TrimSpace(in.State)
	c.UpdatedAt = s.now().UTC()
	if err := s.cities.UpdateCity(ctx, c); err != nil {
		return CityResponse{}, fmt.Errorf("update city %s: %w", id, err)
	}
	s.invalidate(ctx, citiesKey, hotelsKey)
	s.invalidateHotelsOfCity(ctx, id)
	return mapCity(c), nil
}

/********** hotels **********/

func (s *CatalogService) ListHotels(ctx context.Context) ([]HotelResponse, error) {
	var out []HotelResponse
	if s.cacheGet(ctx, hotelsKey, &out) {
		return out, nil
	}
	hs, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	out = mapSlice(hs, mapHotel)
	s.cacheSet(ctx, hotelsKey, out)
	return out, nil
}

func (s *CatalogService) GetHotel(ctx context.Context, id uuid.UUID) (HotelResponse, error) {
	var out HotelResponse
	if s.cacheGet(ctx, hotelKey(id), &out) {
		return out, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return HotelResponse{}, fmt.Errorf("hotel %s: %w", id, err)
	}
	out = mapHotel(h)
	s.cacheSet(ctx, hotelKey(id), out)
	return out, nil
}

func (s *CatalogService) CreateHotel(ctx context.Context, in HotelRequest) (HotelResponse, error) {
	if err := Validate(in); err != nil {
		return HotelResponse{}, err
	}
	city, err := s.cities.GetCity(ctx, in.CityID)
	if err != nil {
		return HotelResponse{}, fmt.Errorf("city %s: %w", in.CityID, err)
	}
	now := s.now().UTC()
	h := domain.Hotel{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		CityID:  city.ID,
		City:    &city,
		Audit:   domain.Audit{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.hotels.CreateHotel(ctx, h); err != nil {
		return HotelResponse{}, fmt.Errorf("create hotel: %w", err)
	}
	s.invalidate(ctx, hotelsKey)
	return mapHotel(h), nil
}

/********** rooms **********/

func (s *CatalogService) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]RoomResponse, error) {
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, err)
	}
	rs, err := s.rooms.ListRoomsByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	out := make([]RoomResponse, 0, len(rs))
	for _, r := range rs {
		r.Hotel = &h
		out = append(out, mapRoom(r))
	}
	return out, nil
}

func (s *CatalogService) CreateRoom(ctx context.Context, in RoomRequest) (RoomResponse, error) {
	if err := Validate(in); err != nil {
		return RoomResponse{}, err
	}
	h, err := s.hotels.GetHotel(ctx, in.HotelID)
	if err != nil {
		return RoomResponse{}, fmt.Errorf("hotel %s: %w", in.HotelID, err)
	}
	now := s.now().UTC()
	r := domain.Room{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(in.Name),
		Capacity: in.Capacity,
		Image:    strings.TrimSpace(in.Image),
		HotelID:  h.ID,
		Hotel:    &h,
		Audit:    domain.Audit{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.rooms.CreateRoom(ctx, r); err != nil {
		return RoomResponse{}, fmt.Errorf("create room: %w", err)
	}
	return mapRoom(r), nil
}

func (s *CatalogService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

/********** cache helpers **********/

// cacheGet treats any cache error as a miss.
func (s *CatalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	return err == nil && ok
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}

func (s *CatalogService) invalidateHotelsOfCity(ctx context.Context, cityID uuid.UUID) {
	if s.cache == nil {
		return
	}
	hs, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return
	}
	for _, h := range hs {
		if h.CityID == cityID {
			_ = s.cache.Del(ctx, hotelKey(h.ID))
		}
	}
}
