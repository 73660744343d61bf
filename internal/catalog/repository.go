package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/shared"
)

const uniqueViolation = "23505"

// Repository persists every lookup kind; the table is resolved from the
// kind registry, never from request input.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the user's items of one kind ordered by name.
func (r *Repository) List(ctx context.Context, kind Kind, userID int64) ([]Item, error) {
	query := fmt.Sprintf(
		"SELECT id, name, created_at, updated_at FROM %s WHERE user_id = $1 ORDER BY name ASC",
		kinds[kind].table)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create inserts a named item for the user.
func (r *Repository) Create(ctx context.Context, kind Kind, userID int64, name string) (*Item, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, created_at, updated_at`, kinds[kind].table)

	var item Item
	err := r.pool.QueryRow(ctx, query, userID, name).Scan(
		&item.ID, &item.Name, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &item, nil
}

// Update renames an owner-scoped item.
func (r *Repository) Update(ctx context.Context, kind Kind, userID, id int64, name string) (*Item, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING id, name, created_at, updated_at`, kinds[kind].table)

	var item Item
	err := r.pool.QueryRow(ctx, query, userID, id, name).Scan(
		&item.ID, &item.Name, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &item, nil
}

// Delete removes an owner-scoped item.
func (r *Repository) Delete(ctx context.Context, kind Kind, userID, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $2 AND user_id = $1", kinds[kind].table)
	tag, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicateName
	}
	return err
}
