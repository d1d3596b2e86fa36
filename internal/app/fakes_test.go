package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

// ---- geocoder ----

type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]domain.Coordinate // keyed by street
	fail   map[string]error
	calls  []domain.AddressQuery
}

func (f *fakeGeocoder) Geocode(ctx context.Context, q domain.AddressQuery) (domain.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if err, ok := f.fail[q.Street]; ok {
		return domain.Coordinate{}, err
	}
	c, ok := f.coords[q.Street]
	if !ok {
		return domain.Coordinate{}, domain.ErrNotFound
	}
	return c, nil
}

// ---- bookings ----

type fakeBookings struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]domain.Booking
	users map[uuid.UUID]domain.User
	fail  error
}

func newFakeBookings(users ...domain.User) *fakeBookings {
	f := &fakeBookings{rows: map[uuid.UUID]domain.Booking{}, users: map[uuid.UUID]domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeBookings) InsertBooking(ctx context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.rows[b.ID] = b
	return nil
}

func (f *fakeBookings) UpdateBooking(ctx context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[b.ID]; !ok {
		return domain.ErrNotFound
	}
	f.rows[b.ID] = b
	return nil
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBookings) ListBookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.rows {
		if f.users[b.UserID].Email == email {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (f *fakeBookings) GetBookingByID(ctx context.Context, id uuid.UUID, email string) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || f.users[b.UserID].Email != email {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

// ---- users ----

type fakeUsers struct {
	mu   sync.Mutex
	byEm map[string]domain.User
}

func newFakeUsers(us ...domain.User) *fakeUsers {
	f := &fakeUsers{byEm: map[string]domain.User{}}
	for _, u := range us {
		f.byEm[u.Email] = u
	}
	return f
}

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEm[u.Email]; ok {
		return domain.ErrConflict
	}
	f.byEm[u.Email] = u
	return nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEm[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byEm))
	for _, u := range f.byEm {
		out = append(out, u)
	}
	return out, nil
}

// ---- catalog ----

type fakeCatalog struct {
	mu     sync.Mutex
	cities map[uuid.UUID]domain.City
	hotels map[uuid.UUID]domain.Hotel
	rooms  map[uuid.UUID]domain.Room
	reads  int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		cities: map[uuid.UUID]domain.City{},
		hotels: map[uuid.UUID]domain.Hotel{},
		rooms:  map[uuid.UUID]domain.Room{},
	}
}

func (f *fakeCatalog) CreateCity(ctx context.Context, c domain.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cities[c.ID] = c
	return nil
}

func (f *fakeCatalog) UpdateCity(ctx context.Context, c domain.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cities[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.cities[c.ID] = c
	return nil
}

func (f *fakeCatalog) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cities[id]
	if !ok {
		return domain.City{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCatalog) ListCities(ctx context.Context) ([]domain.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.City, 0, len(f.cities))
	for _, c := range f.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) CreateHotel(ctx context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeCatalog) GetHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	c := f.cities[h.CityID]
	h.City = &c
	return h, nil
}

func (f *fakeCatalog) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]domain.Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		c := f.cities[h.CityID]
		h.City = &c
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) CreateRoom(ctx context.Context, r domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeCatalog) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeCatalog) GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeCatalog) ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ---- cache ----

// fakeCache round-trips values through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	err   error
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}
