package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/shared"
)

const uniqueViolation = "23505"

// Repository persists user accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new account on the free plan.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error) {
	const query = `
		INSERT INTO users (email, name, password_hash, plan, onboarding_completed, created_at, updated_at)
		VALUES ($1, $2, $3, 'free', FALSE, NOW(), NOW())
		RETURNING id, email, name, plan, onboarding_completed, created_at`

	var user User
	err := r.pool.QueryRow(ctx, query, email, name, passwordHash).Scan(
		&user.ID, &user.Email, &user.Name, &user.Plan, &user.OnboardingCompleted, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrEmailTaken
		}
		return nil, err
	}
	user.PasswordHash = passwordHash
	return &user, nil
}

// UserByEmail fetches an account by login email.
func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, name, password_hash, plan, onboarding_completed, created_at
		FROM users WHERE email = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Plan, &user.OnboardingCompleted, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByID fetches an account by primary key.
func (r *Repository) UserByID(ctx context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, email, name, password_hash, plan, onboarding_completed, created_at
		FROM users WHERE id = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Plan, &user.OnboardingCompleted, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
