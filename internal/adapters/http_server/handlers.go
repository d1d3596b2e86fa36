package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

const maxBody = 1 << 20

type AuthAPI interface {
	TokenParser
	Register(ctx context.Context, in app.RegisterRequest) (app.UserResponse, error)
	Login(ctx context.Context, in app.LoginRequest) (app.TokenResponse, error)
	ListUsers(ctx context.Context) ([]app.UserResponse, error)
}

type CatalogAPI interface {
	ListCities(ctx context.Context) ([]app.CityResponse, error)
	CreateCity(ctx context.Context, in app.CityRequest) (app.CityResponse, error)
	UpdateCity(ctx context.Context, id uuid.UUID, in app.CityRequest) (app.CityResponse, error)
	ListHotels(ctx context.Context) ([]app.HotelResponse, error)
	GetHotel(ctx context.Context, id uuid.UUID) (app.HotelResponse, error)
	CreateHotel(ctx context.Context, in app.HotelRequest) (app.HotelResponse, error)
	ListRooms(ctx context.Context, hotelID uuid.UUID) ([]app.RoomResponse, error)
	CreateRoom(ctx context.Context, in app.RoomRequest) (app.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type BookingAPI interface {
	Book(ctx context.Context, userEmail string, req domain.BookingRequest) (domain.Booking, error)
	Rebook(ctx context.Context, userEmail string, id uuid.UUID, req domain.BookingRequest) (domain.Booking, error)
	Cancel(ctx context.Context, userEmail string, id uuid.UUID) error
	GetBookings(ctx context.Context, userEmail string) ([]domain.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID, userEmail string) (domain.Booking, error)
}

type GeoAPI interface {
	Status(ctx context.Context) (app.GeoStatusResponse, error)
	HotelsByDistance(ctx context.Context, in app.GeoRequest) ([]app.GeoHotelResponse, error)
}

type Handlers struct {
	Auth     AuthAPI
	Catalog  CatalogAPI
	Bookings BookingAPI
	Geo      GeoAPI
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/users", h.register)
		r.Get("/cities", h.listCities)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/hotels/{id}/rooms", h.listRooms)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Auth))

			r.Post("/bookings", h.createBooking)
			r.Get("/bookings", h.listBookings)
			r.Get("/bookings/{id}", h.getBooking)
			r.Put("/bookings/{id}", h.updateBooking)
			r.Delete("/bookings/{id}", h.deleteBooking)

			r.Get("/geo/status", h.geoStatus)
			r.Post("/geo/address", h.hotelsByAddress)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				r.Get("/users", h.listUsers)
				r.Post("/cities", h.createCity)
				r.Put("/cities/{id}", h.updateCity)
				r.Post("/hotels", h.createHotel)
				r.Post("/rooms", h.createRoom)
				r.Delete("/rooms/{id}", h.deleteRoom)
			})
		})
	})
}

/********** responses **********/

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrMaximumCapacityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGeocodingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps err to a problem response. Server-side failures are logged
// and their detail is withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	p := problem{Type: "about:blank", Title: http.StatusText(status), Status: status, Detail: err.Error()}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		p.Errors = ve.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("route", routeOf(r)).Str("method", r.Method).Msg("request failed")
		if status == http.StatusInternalServerError {
			p.Detail = "internal error"
		}
	}
	writeProblemBody(w, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCacheable serves catalog reads with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

/********** request helpers **********/

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(dst); err != nil {
		return &domain.ValidationError{Fields: map[string]string{"body": "malformed JSON: " + err.Error()}}
	}
	return nil
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Fields: map[string]string{"id": "must be a UUID"}}
	}
	return id, nil
}

func callerEmail(r *http.Request) (string, error) {
	c, ok := ClaimsFrom(r.Context())
	if !ok || c.Email == "" {
		return "", domain.ErrUnauthorized
	}
	return c.Email, nil
}

/********** auth & users **********/

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	tok, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

/********** catalog **********/

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListCities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) createCity(w http.ResponseWriter, r *http.Request) {
	var in app.CityRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateCity(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateCity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.CityRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.UpdateCity(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateHotel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.ListRooms(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.CreateRoom(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** bookings **********/

func (h *Handlers) bookingInput(w http.ResponseWriter, r *http.Request) (domain.BookingRequest, error) {
	var in app.BookingInput
	if err := decode(w, r, &in); err != nil {
		return domain.BookingRequest{}, err
	}
	if err := app.Validate(in); err != nil {
		return domain.BookingRequest{}, err
	}
	return in.ToDomain(), nil
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := h.bookingInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Book(r.Context(), email, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.MapBooking(b))
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bs, err := h.Bookings.GetBookings(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.MapBookings(bs))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.GetBookingByID(r.Context(), id, email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.MapBooking(b))
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := h.bookingInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Rebook(r.Context(), email, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.MapBooking(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Bookings.Cancel(r.Context(), email, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** geo **********/

func (h *Handlers) geoStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Geo.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) hotelsByAddress(w http.ResponseWriter, r *http.Request) {
	var in app.GeoRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Geo.HotelsByDistance(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
