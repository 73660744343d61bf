package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigledger/gigledger/internal/shared"
)

// UserStore is the persistence surface the service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
}

// WelcomeNotifier enqueues the post-registration email. A nil notifier
// disables the mail without affecting sign-up.
type WelcomeNotifier interface {
	EnqueueWelcome(ctx context.Context, email, name string) error
}

// Service implements registration, login and token verification.
type Service struct {
	store    UserStore
	notifier WelcomeNotifier
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(store UserStore, notifier WelcomeNotifier, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates an account and enqueues the welcome email. Mail
// enqueue failures never fail the registration.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(ctx, normalizeEmail(input.Email), strings.TrimSpace(input.Name), string(hash))
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.EnqueueWelcome(ctx, user.Email, user.Name)
	}
	return s.issueToken(user)
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// CurrentUser resolves the account behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*User, error) {
	return s.store.UserByID(ctx, userID)
}

func (s *Service) issueToken(user *User) (*TokenResponse, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, User: *user}, nil
}

// VerifyToken validates a signed token and returns its subject.
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, shared.ErrUnauthorized
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		return 0, shared.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, shared.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, shared.ErrUnauthorized
	}
	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
