package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/descripto-api/internal/domain"
)

// UserRepository defines persistence access for accounts. The auth core only
// depends on this interface; storage stays swappable.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByIdentifier(ctx context.Context, identifier string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
        id, email, COALESCE(mobile_number,''), password_hash,
        COALESCE(first_name,''), COALESCE(last_name,''), roles,
        active, verified, created_at, updated_at, last_login`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, mobile_number, password_hash, first_name, last_name, roles, active, verified)
        VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), NULLIF($5,''), $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.MobileNumber,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Roles,
		user.Active,
		user.Verified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, mobile_number=NULLIF($2,''), password_hash=$3,
               first_name=NULLIF($4,''), last_name=NULLIF($5,''), roles=$6,
               active=$7, verified=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.MobileNumber,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Roles,
		user.Active,
		user.Verified,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByIdentifier matches email or mobile number in one query so timing
// cannot reveal which field matched.
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE email=$1 OR mobile_number=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, identifier))
}

func (r *userRepository) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 OR mobile_number=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, identifier).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.MobileNumber,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.Roles,
			&user.Active,
			&user.Verified,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLogin,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.MobileNumber,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Roles,
		&user.Active,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
