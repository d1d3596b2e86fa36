package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	drv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

const (
	errDuplicateEntry = 1062
	errNoReferenced   = 1452
)

// Repo implements every repository port of the domain on one *sql.DB.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

// Open connects with the given DSN and pings once.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// mapErr translates driver errors into domain sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *drv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return fmt.Errorf("%w: %s", domain.ErrConflict, me.Message)
		case errNoReferenced:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, me.Message)
		}
	}
	return err
}

func (r *Repo) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

// execOne runs a write that must touch exactly one live row.
func (r *Repo) execOne(ctx context.Context, query string, args ...any) error {
	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func userDest(u *domain.User) []any {
	return []any{&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt}
}

func cityDest(c *domain.City) []any {
	return []any{&c.ID, &c.Name, &c.State, &c.CreatedAt, &c.UpdatedAt}
}

func hotelDest(h *domain.Hotel) []any {
	h.City = &domain.City{}
	return append([]any{&h.ID, &h.Name, &h.Address, &h.CityID, &h.CreatedAt, &h.UpdatedAt}, cityDest(h.City)...)
}

func roomDest(rm *domain.Room) []any {
	rm.Hotel = &domain.Hotel{}
	return append([]any{&rm.ID, &rm.Name, &rm.Capacity, &rm.Image, &rm.HotelID, &rm.CreatedAt, &rm.UpdatedAt}, hotelDest(rm.Hotel)...)
}

func bookingDest(b *domain.Booking) []any {
	b.User, b.Room = &domain.User{}, &domain.Room{}
	d := []any{&b.ID, &b.CheckIn, &b.CheckOut, &b.GuestQuantity, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt}
	d = append(d, userDest(b.User)...)
	return append(d, roomDest(b.Room)...)
}

func scanOne[T any](row scanner, dest func(*T) []any) (T, error) {
	var v T
	if err := row.Scan(dest(&v)...); err != nil {
		return v, mapErr(err)
	}
	return v, nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, dest func(*T) []any, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scanOne(rows, dest)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- users ----------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.exec(ctx, insertUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanOne(r.db.QueryRowContext(ctx, getUserByEmailSQL, email), userDest)
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	return queryAll(ctx, r.db, userDest, listUsersSQL)
}

// ---------- cities ----------

func (r *Repo) CreateCity(ctx context.Context, c domain.City) error {
	_, err := r.exec(ctx, insertCitySQL, c.ID, c.Name, c.State, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return err
}

func (r *Repo) UpdateCity(ctx context.Context, c domain.City) error {
	return r.execOne(ctx, updateCitySQL, c.Name, c.State, c.UpdatedAt.UTC(), c.ID)
}

func (r *Repo) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	return scanOne(r.db.QueryRowContext(ctx, getCitySQL, id), cityDest)
}

func (r *Repo) ListCities(ctx context.Context) ([]domain.City, error) {
	return queryAll(ctx, r.db, cityDest, listCitiesSQL)
}

// ---------- hotels ----------

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.exec(ctx, insertHotelSQL, h.ID, h.Name, h.Address, h.CityID, h.CreatedAt.UTC(), h.UpdatedAt.UTC())
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	return scanOne(r.db.QueryRowContext(ctx, getHotelSQL, id), hotelDest)
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return queryAll(ctx, r.db, hotelDest, listHotelsSQL)
}

// ---------- rooms ----------

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.exec(ctx, insertRoomSQL,
		rm.ID, rm.Name, rm.Capacity, rm.Image, rm.HotelID, rm.CreatedAt.UTC(), rm.UpdatedAt.UTC())
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, deleteRoomSQL, r.now().UTC(), id)
}

func (r *Repo) GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	return scanOne(r.db.QueryRowContext(ctx, getRoomSQL, id), roomDest)
}

func (r *Repo) ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	return queryAll(ctx, r.db, roomDest, listRoomsByHotelSQL, hotelID)
}

// ---------- bookings ----------

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.exec(ctx, insertBookingSQL,
		b.ID, b.CheckIn.UTC(), b.CheckOut.UTC(), b.GuestQuantity, b.UserID, b.RoomID,
		b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	return err
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	return r.execOne(ctx, updateBookingSQL,
		b.CheckIn.UTC(), b.CheckOut.UTC(), b.GuestQuantity, b.RoomID, b.UpdatedAt.UTC(), b.ID)
}

func (r *Repo) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, deleteBookingSQL, r.now().UTC(), id)
}

func (r *Repo) ListBookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return queryAll(ctx, r.db, bookingDest, listBookingsByEmailSQL, email)
}

func (r *Repo) GetBookingByID(ctx context.Context, id uuid.UUID, email string) (domain.Booking, error) {
	return scanOne(r.db.QueryRowContext(ctx, getBookingByIDSQL, id, email), bookingDest)
}

var (
	_ domain.UserRepository    = (*Repo)(nil)
	_ domain.CityRepository    = (*Repo)(nil)
	_ domain.HotelRepository   = (*Repo)(nil)
	_ domain.RoomRepository    = (*Repo)(nil)
	_ domain.BookingRepository = (*Repo)(nil)
)
