package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/descripto-api/internal/domain"
)

// MessageRepository manages generation exchanges within tabs.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByTab(ctx context.Context, tabID string, page, size int) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (tab_id, user_id, title, feature, tone, response, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.TabID,
		msg.UserID,
		msg.Title,
		msg.Feature,
		msg.Tone,
		msg.Response,
		msg.Active,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByTab(ctx context.Context, tabID string, page, size int) ([]domain.Message, error) {
	const query = `
        SELECT id, tab_id, user_id, title, feature, tone, response, active, created_at
        FROM messages WHERE tab_id=$1 AND active
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, tabID, size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TabID,
			&msg.UserID,
			&msg.Title,
			&msg.Feature,
			&msg.Tone,
			&msg.Response,
			&msg.Active,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
