package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

// HotelRanker orders hotels by great-circle distance from an address.
type HotelRanker struct {
	geo     domain.Geocoder
	country string
	limit   int // max in-flight hotel geocodes; <= 0 means unbounded
}

func NewHotelRanker(g domain.Geocoder, country string, concurrency int) *HotelRanker {
	return &HotelRanker{geo: g, country: country, limit: concurrency}
}

// HotelAddress builds the geocoding query for a hotel. The hotel must have
// its city joined.
func HotelAddress(h domain.Hotel, country string) domain.AddressQuery {
	q := domain.AddressQuery{Street: h.Address, Country: country}
	if h.City != nil {
		q.City = h.City.Name
		q.State = h.City.State
	}
	return q
}

// RankHotelsByDistance geocodes origin once and every hotel concurrently.
// Any geocode failure fails the whole ranking; no partial result is returned.
func (r *HotelRanker) RankHotelsByDistance(ctx context.Context, origin domain.AddressQuery, hotels []domain.Hotel) ([]domain.HotelDistance, error) {
	if origin.Country == "" {
		origin.Country = r.country
	}
	base, err := r.geo.Geocode(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("geocode origin: %w", err)
	}

	out := make([]domain.HotelDistance, len(hotels))
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, h := range hotels {
		g.Go(func() error {
			c, err := r.geo.Geocode(gctx, HotelAddress(h, r.country))
			if err != nil {
				return fmt.Errorf("geocode hotel %s: %w", h.ID, err)
			}
			out[i] = toHotelDistance(h, DistanceKm(base, c))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortByDistance(out)
	return out, nil
}

// SortByDistance orders by distance ascending, then name ascending.
func SortByDistance(ds []domain.HotelDistance) {
	slices.SortStableFunc(ds, func(a, b domain.HotelDistance) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

func toHotelDistance(h domain.Hotel, km int) domain.HotelDistance {
	d := domain.HotelDistance{
		HotelID:    h.ID,
		Name:       h.Name,
		Address:    h.Address,
		DistanceKm: km,
	}
	if h.City != nil {
		d.CityName = h.City.Name
		d.State = h.City.State
	}
	return d
}
