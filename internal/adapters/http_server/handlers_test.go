package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

/********** stubs **********/

type stubAuth struct{}

func (stubAuth) ParseToken(raw string) (app.Claims, error) {
	switch raw {
	case "admin-token":
		return app.Claims{Email: "root@example.com", Role: domain.RoleAdmin}, nil
	case "client-token":
		return app.Claims{Email: "ana@example.com", Role: domain.RoleClient}, nil
	}
	return app.Claims{}, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
}

func (stubAuth) Register(_ context.Context, in app.RegisterRequest) (app.UserResponse, error) {
	if in.Email == "taken@example.com" {
		return app.UserResponse{}, domain.ErrConflict
	}
	return app.UserResponse{UserID: uuid.New(), Name: in.Name, Email: in.Email, UserType: domain.RoleClient}, nil
}

func (stubAuth) Login(_ context.Context, in app.LoginRequest) (app.TokenResponse, error) {
	if in.Password != "secret" {
		return app.TokenResponse{}, domain.ErrUnauthorized
	}
	return app.TokenResponse{Token: "client-token"}, nil
}

func (stubAuth) ListUsers(context.Context) ([]app.UserResponse, error) {
	return []app.UserResponse{{Name: "Ana"}}, nil
}

type stubCatalog struct {
	hotel app.HotelResponse
	err   error
}

func (s *stubCatalog) ListCities(context.Context) ([]app.CityResponse, error) {
	return []app.CityResponse{{Name: "Recife", State: "PE"}}, s.err
}
func (s *stubCatalog) CreateCity(_ context.Context, in app.CityRequest) (app.CityResponse, error) {
	return app.CityResponse{CityID: uuid.New(), Name: in.Name, State: in.State}, s.err
}
func (s *stubCatalog) UpdateCity(_ context.Context, id uuid.UUID, in app.CityRequest) (app.CityResponse, error) {
	return app.CityResponse{CityID: id, Name: in.Name, State: in.State}, s.err
}
func (s *stubCatalog) ListHotels(context.Context) ([]app.HotelResponse, error) {
	return []app.HotelResponse{s.hotel}, s.err
}
func (s *stubCatalog) GetHotel(_ context.Context, id uuid.UUID) (app.HotelResponse, error) {
	if id != s.hotel.HotelID {
		return app.HotelResponse{}, domain.ErrNotFound
	}
	return s.hotel, s.err
}
func (s *stubCatalog) CreateHotel(context.Context, app.HotelRequest) (app.HotelResponse, error) {
	return s.hotel, s.err
}
func (s *stubCatalog) ListRooms(context.Context, uuid.UUID) ([]app.RoomResponse, error) {
	return []app.RoomResponse{}, s.err
}
func (s *stubCatalog) CreateRoom(context.Context, app.RoomRequest) (app.RoomResponse, error) {
	return app.RoomResponse{}, s.err
}
func (s *stubCatalog) DeleteRoom(context.Context, uuid.UUID) error { return s.err }

type stubBookings struct {
	mu        sync.Mutex
	err       error
	lastEmail string
	lastReq   domain.BookingRequest
}

func (s *stubBookings) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubBookings) last() (string, domain.BookingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEmail, s.lastReq
}

func (s *stubBookings) record(email string, req domain.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmail, s.lastReq = email, req
	return s.err
}

func booking(req domain.BookingRequest) domain.Booking {
	in := time.Date(2030, 1, 10, 14, 0, 0, 0, time.UTC)
	return domain.Booking{
		ID: uuid.MustParse("7b7f5a3e-1c1d-4a47-9d7e-2b4c1f3e9a10"), CheckIn: in, CheckOut: in.Add(24 * time.Hour),
		GuestQuantity: req.GuestQuantity, RoomID: req.RoomID,
		Room: &domain.Room{ID: req.RoomID, Name: "Standard", Capacity: 2},
	}
}

func (s *stubBookings) Book(_ context.Context, email string, req domain.BookingRequest) (domain.Booking, error) {
	if err := s.record(email, req); err != nil {
		return domain.Booking{}, err
	}
	return booking(req), nil
}
func (s *stubBookings) Rebook(_ context.Context, email string, _ uuid.UUID, req domain.BookingRequest) (domain.Booking, error) {
	if err := s.record(email, req); err != nil {
		return domain.Booking{}, err
	}
	return booking(req), nil
}
func (s *stubBookings) Cancel(_ context.Context, email string, _ uuid.UUID) error {
	return s.record(email, domain.BookingRequest{})
}
func (s *stubBookings) GetBookings(_ context.Context, email string) ([]domain.Booking, error) {
	return []domain.Booking{}, s.record(email, domain.BookingRequest{})
}
func (s *stubBookings) GetBookingByID(_ context.Context, _ uuid.UUID, email string) (domain.Booking, error) {
	return domain.Booking{}, s.record(email, domain.BookingRequest{})
}

type stubGeo struct {
	mu  sync.Mutex
	err error
}

func (s *stubGeo) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubGeo) Status(context.Context) (app.GeoStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return app.GeoStatusResponse{Status: 0, Message: "OK"}, s.err
}
func (s *stubGeo) HotelsByDistance(context.Context, app.GeoRequest) ([]app.GeoHotelResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []app.GeoHotelResponse{{Name: "Near", Distance: 3}}, s.err
}

/********** harness **********/

type harness struct {
	ts       *httptest.Server
	catalog  *stubCatalog
	bookings *stubBookings
	geo      *stubGeo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		catalog:  &stubCatalog{hotel: app.HotelResponse{HotelID: uuid.New(), Name: "Paulista Plaza"}},
		bookings: &stubBookings{},
		geo:      &stubGeo{},
	}
	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{Auth: stubAuth{}, Catalog: h.catalog, Bookings: h.bookings, Geo: h.geo})
	h.ts = httptest.NewServer(srv.Mux())
	t.Cleanup(h.ts.Close)
	return h
}

func (h *harness) do(t *testing.T, method, path, token, body string, hdr ...string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

type problemBody struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`
}

func readProblem(t *testing.T, res *http.Response) problemBody {
	t.Helper()
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type %q", ct)
	}
	var p problemBody
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return p
}

const validBooking = `{"checkIn":"10/01/2030 14:00:00","checkOut":"11/01/2030 12:00:00","guestQuantity":2,"roomId":"0f8fad5b-d9cb-469f-a165-70867728950e"}`

/********** tests **********/

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodGet, "/healthz", "", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestAuth_TokenRequired(t *testing.T) {
	h := newHarness(t)
	for _, tok := range []string{"", "bogus"} {
		res := h.do(t, http.MethodGet, "/v1/bookings", tok, "")
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("token %q: status %d", tok, res.StatusCode)
		}
		if p := readProblem(t, res); p.Status != http.StatusUnauthorized {
			t.Fatalf("problem: %+v", p)
		}
	}
}

func TestAuth_AdminOnlyRoutes(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodPost, "/v1/cities", "client-token", `{"name":"Recife","state":"PE"}`)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("client: status %d", res.StatusCode)
	}
	res = h.do(t, http.MethodPost, "/v1/cities", "admin-token", `{"name":"Recife","state":"PE"}`)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("admin: status %d", res.StatusCode)
	}
	res = h.do(t, http.MethodGet, "/v1/users", "admin-token", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list users: status %d", res.StatusCode)
	}
}

func TestLoginAndRegister(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, http.MethodPost, "/v1/login", "", `{"email":"ana@example.com","password":"secret"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", res.StatusCode)
	}
	var tok app.TokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil || tok.Token == "" {
		t.Fatalf("token: %+v %v", tok, err)
	}

	res = h.do(t, http.MethodPost, "/v1/login", "", `{"email":"ana@example.com","password":"nope"}`)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", res.StatusCode)
	}

	res = h.do(t, http.MethodPost, "/v1/users", "", `{"name":"Taken","email":"taken@example.com","password":"secret"}`)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", res.StatusCode)
	}

	res = h.do(t, http.MethodPost, "/v1/users", "", `{"name":`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed JSON: status %d", res.StatusCode)
	}
}

func TestCreateBooking_UsesCallerEmail(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodPost, "/v1/bookings", "client-token", validBooking)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out app.BookingResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.GuestQuantity != 2 || out.Room == nil || out.Room.Name != "Standard" {
		t.Fatalf("unexpected body: %+v", out)
	}
	email, req := h.bookings.last()
	if email != "ana@example.com" {
		t.Fatalf("booking created for %q", email)
	}
	if req.CheckIn != "10/01/2030 14:00:00" {
		t.Fatalf("raw dates should reach the service untouched: %+v", req)
	}
}

func TestCreateBooking_ValidationProblem(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodPost, "/v1/bookings", "client-token", `{"checkIn":"10/01/2030 14:00:00"}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
	p := readProblem(t, res)
	for _, f := range []string{"checkOut", "guestQuantity", "roomId"} {
		if _, ok := p.Errors[f]; !ok {
			t.Fatalf("missing field error %q in %+v", f, p.Errors)
		}
	}
}

func TestBookingErrors_MapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid date", &domain.InvalidDateError{Field: "checkIn", Raw: "2030-01-10"}, http.StatusBadRequest},
		{"capacity", domain.ErrMaximumCapacityExceeded, http.StatusBadRequest},
		{"missing room", fmt.Errorf("room x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.bookings.fail(tc.err)
			res := h.do(t, http.MethodPost, "/v1/bookings", "client-token", validBooking)
			if res.StatusCode != tc.want {
				t.Fatalf("status %d, want %d", res.StatusCode, tc.want)
			}
			p := readProblem(t, res)
			if tc.want == http.StatusInternalServerError && p.Detail != "internal error" {
				t.Fatalf("5xx detail should be withheld, got %q", p.Detail)
			}
		})
	}
}

func TestBookingByID(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodGet, "/v1/bookings/not-a-uuid", "client-token", "")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id: status %d", res.StatusCode)
	}

	h.bookings.fail(domain.ErrNotFound)
	res = h.do(t, http.MethodGet, "/v1/bookings/"+uuid.NewString(), "client-token", "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign booking: status %d", res.StatusCode)
	}

	h.bookings.fail(nil)
	res = h.do(t, http.MethodDelete, "/v1/bookings/"+uuid.NewString(), "client-token", "")
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel: status %d", res.StatusCode)
	}
	res = h.do(t, http.MethodPut, "/v1/bookings/"+uuid.NewString(), "client-token", validBooking)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("rebook: status %d", res.StatusCode)
	}
}

func TestGetHotel_ETag(t *testing.T) {
	h := newHarness(t)
	path := "/v1/hotels/" + h.catalog.hotel.HotelID.String()

	res := h.do(t, http.MethodGet, path, "", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("etag %q", etag)
	}

	res = h.do(t, http.MethodGet, path, "", "", "If-None-Match", etag)
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional GET: status %d", res.StatusCode)
	}

	res = h.do(t, http.MethodGet, "/v1/hotels/"+uuid.NewString(), "", "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown hotel: status %d", res.StatusCode)
	}
}

func TestGeo(t *testing.T) {
	h := newHarness(t)
	body := `{"address":"Av. Paulista, 1000","city":"São Paulo","state":"SP"}`

	res := h.do(t, http.MethodPost, "/v1/geo/address", "client-token", body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out []app.GeoHotelResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil || len(out) != 1 || out[0].Distance != 3 {
		t.Fatalf("body: %+v %v", out, err)
	}

	h.geo.fail(fmt.Errorf("geocode origin: %w", domain.ErrGeocodingUnavailable))
	res = h.do(t, http.MethodPost, "/v1/geo/address", "client-token", body)
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("upstream down: status %d", res.StatusCode)
	}
	res = h.do(t, http.MethodGet, "/v1/geo/status", "client-token", "")
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status endpoint: %d", res.StatusCode)
	}
}
