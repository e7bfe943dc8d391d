package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shop-shielder/internal/domain"
)

// UserRepository define el contrato de persistencia para comerciantes.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateMetadata(ctx context.Context, id, storeURL, storeName string, onboarded bool) error
	MarkPaid(ctx context.Context, id string, plan domain.SubscriptionPlan, interval domain.BillingInterval) error
	UpdateResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, first_name, last_name, store_url, store_name,
			onboarded, is_paid, plan, billing_interval, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.StoreURL,
		user.StoreName,
		user.Onboarded,
		user.IsPaid,
		string(user.Plan),
		string(user.Interval),
		user.PasswordHash,
		user.CreatedAt,
	)
	return err
}

const userColumns = `
	id, email, first_name, last_name, store_url, store_name,
	onboarded, is_paid, plan, billing_interval, password_hash,
	reset_token_hash, reset_expires_at, created_at
`

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *PgUserRepository) scanUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var (
		u        domain.User
		plan     string
		interval string
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.StoreURL,
		&u.StoreName,
		&u.Onboarded,
		&u.IsPaid,
		&plan,
		&interval,
		&u.PasswordHash,
		&u.ResetTokenHash,
		&u.ResetExpiresAt,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Plan = domain.SubscriptionPlan(plan)
	u.Interval = domain.BillingInterval(interval)
	return u, nil
}

func (r *PgUserRepository) UpdateMetadata(ctx context.Context, id, storeURL, storeName string, onboarded bool) error {
	const query = `
		UPDATE users SET store_url = $2, store_name = $3, onboarded = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, storeURL, storeName, onboarded)
	return err
}

func (r *PgUserRepository) MarkPaid(ctx context.Context, id string, plan domain.SubscriptionPlan, interval domain.BillingInterval) error {
	const query = `
		UPDATE users SET is_paid = TRUE, plan = $2, billing_interval = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, string(plan), string(interval))
	return err
}

func (r *PgUserRepository) UpdateResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users SET reset_token_hash = $2, reset_expires_at = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, tokenHash, expiresAt)
	return err
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users SET password_hash = $2, reset_token_hash = '', reset_expires_at = NULL
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}
