package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/descripto-api/internal/domain"
)

// TabRepository manages chat conversation tabs.
type TabRepository interface {
	Create(ctx context.Context, tab *domain.Tab) error
	GetByID(ctx context.Context, id string) (*domain.Tab, error)
	ListByUser(ctx context.Context, userID string, page, size int) ([]domain.Tab, error)
}

type tabRepository struct {
	pool *pgxpool.Pool
}

// NewTabRepository builds repository.
func NewTabRepository(pool *pgxpool.Pool) TabRepository {
	return &tabRepository{pool: pool}
}

func (r *tabRepository) Create(ctx context.Context, tab *domain.Tab) error {
	const query = `
        INSERT INTO tabs (user_id, title, active)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tab.UserID,
		tab.Title,
		tab.Active,
	).Scan(&tab.ID, &tab.CreatedAt, &tab.UpdatedAt)
}

func (r *tabRepository) GetByID(ctx context.Context, id string) (*domain.Tab, error) {
	const query = `
        SELECT id, user_id, title, active, created_at, updated_at
        FROM tabs WHERE id=$1`

	var tab domain.Tab
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tab.ID,
		&tab.UserID,
		&tab.Title,
		&tab.Active,
		&tab.CreatedAt,
		&tab.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tab, nil
}

func (r *tabRepository) ListByUser(ctx context.Context, userID string, page, size int) ([]domain.Tab, error) {
	const query = `
        SELECT id, user_id, title, active, created_at, updated_at
        FROM tabs WHERE user_id=$1 AND active
        ORDER BY updated_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tab
	for rows.Next() {
		var tab domain.Tab
		if err := rows.Scan(
			&tab.ID,
			&tab.UserID,
			&tab.Title,
			&tab.Active,
			&tab.CreatedAt,
			&tab.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tab)
	}
	return result, rows.Err()
}
