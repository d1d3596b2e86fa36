// internal/adapters/geocoding/client.go
package geocoding

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const service = "geocoder"

// Client talks to a Nominatim-compatible geocoding API.
type Client struct {
	base    string
	hc      *http.Client
	ua      string
	rl      *rate.Limiter
	retries int
}

// New builds a client. timeout bounds each HTTP attempt; retries is the
// number of extra attempts on 429/5xx and transport errors (0 = single shot).
func New(base, userAgent string, rps int, timeout time.Duration, retries int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("geocoder base URL is required")
	}
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: timeout},
		ua:      userAgent,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		retries: retries,
	}, nil
}

// ---- Public API ----

type place struct {
	Lat coord `json:"lat"`
	Lon coord `json:"lon"`
}

// Geocode returns the best match for q. No match is domain.ErrNotFound;
// any upstream failure is domain.ErrGeocodingUnavailable.
func (c *Client) Geocode(ctx context.Context, q domain.AddressQuery) (domain.Coordinate, error) {
	v := url.Values{}
	v.Set("street", q.Street)
	v.Set("city", q.City)
	v.Set("country", q.Country)
	v.Set("state", q.State)
	v.Set("format", "json")
	v.Set("limit", "1")

	var out []place
	if err := c.get(ctx, "search", c.base+"/search?"+v.Encode(), &out); err != nil {
		return domain.Coordinate{}, err
	}
	if len(out) == 0 {
		return domain.Coordinate{}, fmt.Errorf("no match for %q, %s: %w", q.Street, q.City, domain.ErrNotFound)
	}
	return domain.Coordinate{Latitude: float64(out[0].Lat), Longitude: float64(out[0].Lon)}, nil
}

func (c *Client) Status(ctx context.Context) (domain.GeoStatus, error) {
	var out struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := c.get(ctx, "status", c.base+"/status?format=json", &out); err != nil {
		return domain.GeoStatus{}, err
	}
	return domain.GeoStatus{Status: out.Status, Message: out.Message}, nil
}

// coord accepts "12.5" or 12.5. Parsing always uses '.' as the decimal
// separator; "12,5" is rejected.
type coord float64

func (f *coord) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate %s: %w", b, err)
	}
	*f = coord(v)
	return nil
}

// ---- Internals ----

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrGeocodingUnavailable, fmt.Sprintf(format, args...))
}

// interrupted keeps cause matchable (context.Canceled, DeadlineExceeded)
// alongside ErrGeocodingUnavailable.
func interrupted(what string, cause error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrGeocodingUnavailable, what, cause)
}

// get performs a GET with client-side rate limiting and bounded retries,
// decoding the JSON body into out. Every attempt, retries included, takes a
// limiter token.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	var lastErr error
	for i := 0; i <= c.retries; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			return interrupted("rate limit", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.ua != "" {
			req.Header.Set("User-Agent", c.ua) // Nominatim rejects anonymous clients
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return interrupted(endpoint, ctx.Err())
			}
			lastErr = unavailable("%v", err)
			if i < c.retries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return interrupted(endpoint, ctx.Err())
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return unavailable("decode %s response: %v", endpoint, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = unavailable("remote %d", resp.StatusCode)
			if i < c.retries && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return interrupted(endpoint, ctx.Err())
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return unavailable("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	if lastErr == nil {
		lastErr = errors.New("geocoder: no attempt made")
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
