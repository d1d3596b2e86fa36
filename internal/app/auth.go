package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/domain"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService rejects an empty or blank signing secret.
func NewAuthService(users domain.UserRepository, secret string, ttl time.Duration) (*AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Register creates a client account. Emails are unique, case-insensitively.
func (s *AuthService) Register(ctx context.Context, in RegisterRequest) (UserResponse, error) {
	if err := Validate(in); err != nil {
		return UserResponse{}, err
	}
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return UserResponse{}, fmt.Errorf("email %s: %w", email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		Audit:        domain.Audit{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return UserResponse{}, fmt.Errorf("create user: %w", err)
	}
	return mapUser(u), nil
}

// Login checks credentials and issues a signed HS256 token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginRequest) (TokenResponse, error) {
	if err := Validate(in); err != nil {
		return TokenResponse{}, err
	}
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenResponse{}, fmt.Errorf("incorrect e-mail or password: %w", domain.ErrUnauthorized)
		}
		return TokenResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return TokenResponse{}, fmt.Errorf("incorrect e-mail or password: %w", domain.ErrUnauthorized)
	}
	tok, err := s.Issue(u)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: tok}, nil
}

func (s *AuthService) Issue(u domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *AuthService) ParseToken(raw string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, fmt.Errorf("token malformed: %w", domain.ErrUnauthorized)
		default:
			return Claims{}, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
		}
	}
	if c.Email == "" {
		return Claims{}, fmt.Errorf("token has no email claim: %w", domain.ErrUnauthorized)
	}
	return c, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	us, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return mapSlice(us, mapUser), nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
