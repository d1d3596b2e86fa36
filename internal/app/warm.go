package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/domain"
)

type WarmReport struct {
	Hotels int
	Warmed int
	Failed int
}

// GeocodeWarmer geocodes every stored hotel through geo, normally a
// CachedGeocoder, so later rankings are served from the cache.
type GeocodeWarmer struct {
	hotels  domain.HotelRepository
	geo     domain.Geocoder
	country string
	workers int64
}

func NewGeocodeWarmer(hotels domain.HotelRepository, geo domain.Geocoder, country string, workers int) *GeocodeWarmer {
	if workers <= 0 {
		workers = 1
	}
	return &GeocodeWarmer{hotels: hotels, geo: geo, country: country, workers: int64(workers)}
}

// WarmAll keeps going past per-hotel failures; it only returns an error when
// the hotel list cannot be read or ctx ends.
func (w *GeocodeWarmer) WarmAll(ctx context.Context) (WarmReport, error) {
	hs, err := w.hotels.ListHotels(ctx)
	if err != nil {
		return WarmReport{}, fmt.Errorf("list hotels: %w", err)
	}

	sem := semaphore.NewWeighted(w.workers)
	var wg sync.WaitGroup
	var warmed, failed atomic.Int64

	var acqErr error
	for _, h := range hs {
		// acquire before launching the goroutine; release inside it
		if acqErr = sem.Acquire(ctx, 1); acqErr != nil {
			break
		}
		wg.Add(1)
		go func(h domain.Hotel) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := w.geo.Geocode(ctx, HotelAddress(h, w.country)); err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", h.ID.String()).Err(err).Msg("warm failed")
				return
			}
			warmed.Add(1)
		}(h)
	}
	wg.Wait()

	rep := WarmReport{Hotels: len(hs), Warmed: int(warmed.Load()), Failed: int(failed.Load())}
	if acqErr != nil {
		return rep, acqErr
	}
	return rep, nil
}
