package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// BookingService owns the create/update/delete lifecycle of bookings and the
// owner-scoped read paths.
type BookingService struct {
	bookings domain.BookingRepository
	users    domain.UserRepository
	rooms    domain.RoomRepository
	policy   BookingPolicy
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, u domain.UserRepository, r domain.RoomRepository, p BookingPolicy) *BookingService {
	return &BookingService{bookings: b, users: u, rooms: r, policy: p, now: time.Now}
}

// AddBooking validates req against room and persists a new booking owned by
// user. The returned value is built in memory, joined with user and room.
func (s *BookingService) AddBooking(ctx context.Context, req domain.BookingRequest, user domain.User, room domain.Room) (domain.Booking, error) {
	dates, err := s.validate(req, room)
	if err != nil {
		return domain.Booking{}, err
	}
	now := s.now().UTC()
	b := domain.Booking{
		ID:            uuid.New(),
		CheckIn:       dates.CheckIn,
		CheckOut:      dates.CheckOut,
		GuestQuantity: req.GuestQuantity,
		UserID:        user.ID,
		RoomID:        room.ID,
		User:          &user,
		Room:          &room,
		Audit:         domain.Audit{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.bookings.InsertBooking(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	observability.ObserveBooking("create")
	return b, nil
}

// UpdateBooking re-validates and overwrites the stay fields of existing.
func (s *BookingService) UpdateBooking(ctx context.Context, req domain.BookingRequest, existing domain.Booking, room domain.Room) (domain.Booking, error) {
	dates, err := s.validate(req, room)
	if err != nil {
		return domain.Booking{}, err
	}
	existing.CheckIn = dates.CheckIn
	existing.CheckOut = dates.CheckOut
	existing.GuestQuantity = req.GuestQuantity
	existing.RoomID = room.ID
	existing.Room = &room
	existing.UpdatedAt = s.now().UTC()
	if err := s.bookings.UpdateBooking(ctx, existing); err != nil {
		return domain.Booking{}, fmt.Errorf("update booking %s: %w", existing.ID, err)
	}
	observability.ObserveBooking("update")
	return existing, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, b domain.Booking) error {
	if err := s.bookings.DeleteBooking(ctx, b.ID); err != nil {
		return fmt.Errorf("delete booking %s: %w", b.ID, err)
	}
	observability.ObserveBooking("delete")
	return nil
}

func (s *BookingService) GetBookings(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	return s.bookings.ListBookingsByEmail(ctx, userEmail)
}

// GetBookingByID returns domain.ErrNotFound both for a missing booking and
// for one owned by another user.
func (s *BookingService) GetBookingByID(ctx context.Context, id uuid.UUID, userEmail string) (domain.Booking, error) {
	return s.bookings.GetBookingByID(ctx, id, userEmail)
}

// Book resolves the caller and the requested room, then adds the booking.
func (s *BookingService) Book(ctx context.Context, userEmail string, req domain.BookingRequest) (domain.Booking, error) {
	user, err := s.users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("user %s: %w", userEmail, err)
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("room %s: %w", req.RoomID, err)
	}
	return s.AddBooking(ctx, req, user, room)
}

// Rebook updates a booking the caller owns.
func (s *BookingService) Rebook(ctx context.Context, userEmail string, id uuid.UUID, req domain.BookingRequest) (domain.Booking, error) {
	existing, err := s.GetBookingByID(ctx, id, userEmail)
	if err != nil {
		return domain.Booking{}, err
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("room %s: %w", req.RoomID, err)
	}
	return s.UpdateBooking(ctx, req, existing, room)
}

// Cancel deletes a booking the caller owns.
func (s *BookingService) Cancel(ctx context.Context, userEmail string, id uuid.UUID) error {
	existing, err := s.GetBookingByID(ctx, id, userEmail)
	if err != nil {
		return err
	}
	return s.DeleteBooking(ctx, existing)
}

func (s *BookingService) validate(req domain.BookingRequest, room domain.Room) (domain.BookingDates, error) {
	dates, err := s.policy.ValidateAndParse(req)
	if err != nil {
		return domain.BookingDates{}, err
	}
	if !HasEnoughCapacity(req.GuestQuantity, room.Capacity) {
		return domain.BookingDates{}, domain.ErrMaximumCapacityExceeded
	}
	return dates, nil
}
