package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

type GeoStatusChecker interface {
	Status(ctx context.Context) (domain.GeoStatus, error)
}

// GeoService exposes the geocoder health and the nearby-hotels ranking.
type GeoService struct {
	status  GeoStatusChecker
	hotels  domain.HotelRepository
	ranker  *HotelRanker
	country string
}

func NewGeoService(st GeoStatusChecker, hotels domain.HotelRepository, ranker *HotelRanker, country string) *GeoService {
	return &GeoService{status: st, hotels: hotels, ranker: ranker, country: country}
}

func (s *GeoService) Status(ctx context.Context) (GeoStatusResponse, error) {
	st, err := s.status.Status(ctx)
	if err != nil {
		return GeoStatusResponse{}, err
	}
	return GeoStatusResponse{Status: st.Status, Message: st.Message}, nil
}

// HotelsByDistance ranks every hotel by distance from the given address.
func (s *GeoService) HotelsByDistance(ctx context.Context, in GeoRequest) ([]GeoHotelResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	hs, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	ranked, err := s.ranker.RankHotelsByDistance(ctx, in.ToAddress(s.country), hs)
	if err != nil {
		return nil, err
	}
	return mapSlice(ranked, mapHotelDistance), nil
}

// CachedGeocoder memoizes successful lookups. Cache failures fall through
// to the wrapped geocoder.
type CachedGeocoder struct {
	next  domain.Geocoder
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedGeocoder(next domain.Geocoder, cache domain.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, q domain.AddressQuery) (domain.Coordinate, error) {
	key := GeocodeKey(q)
	var c domain.Coordinate
	if ok, err := g.cache.Get(ctx, key, &c); err == nil && ok {
		return c, nil
	}
	c, err := g.next.Geocode(ctx, q)
	if err != nil {
		return domain.Coordinate{}, err
	}
	_ = g.cache.Set(ctx, key, c, int(g.ttl.Seconds()))
	return c, nil
}

// GeocodeKey normalizes case and surrounding space so equivalent
// addresses share one entry.
func GeocodeKey(q domain.AddressQuery) string {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
	return "geo:" + norm(q.Street) + "|" + norm(q.City) + "|" + norm(q.State) + "|" + norm(q.Country)
}
