package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shop-shielder/internal/domain"
)

// BadgeRepository define el contrato del registro de certificados.
type BadgeRepository interface {
	Upsert(ctx context.Context, badge domain.Badge) error
	GetBySerial(ctx context.Context, serial string) (domain.Badge, error)
	GetActiveByUser(ctx context.Context, userID string) (domain.Badge, error)
}

// PgBadgeRepository implementa BadgeRepository usando pgxpool.
type PgBadgeRepository struct {
	pool *pgxpool.Pool
}

func NewPgBadgeRepository(pool *pgxpool.Pool) *PgBadgeRepository {
	return &PgBadgeRepository{pool: pool}
}

func (r *PgBadgeRepository) Upsert(ctx context.Context, badge domain.Badge) error {
	const query = `
		INSERT INTO badges (serial, user_id, domain, issued_year, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (serial) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			domain = EXCLUDED.domain,
			status = EXCLUDED.status
	`
	_, err := r.pool.Exec(ctx, query,
		badge.Serial,
		badge.UserID,
		badge.Domain,
		badge.IssuedYear,
		badge.Status,
		badge.CreatedAt,
	)
	return err
}

func (r *PgBadgeRepository) GetBySerial(ctx context.Context, serial string) (domain.Badge, error) {
	const query = `
		SELECT serial, user_id, domain, issued_year, status, created_at
		FROM badges
		WHERE serial = $1
	`
	var b domain.Badge
	err := r.pool.QueryRow(ctx, query, serial).Scan(
		&b.Serial,
		&b.UserID,
		&b.Domain,
		&b.IssuedYear,
		&b.Status,
		&b.CreatedAt,
	)
	return b, err
}

func (r *PgBadgeRepository) GetActiveByUser(ctx context.Context, userID string) (domain.Badge, error) {
	const query = `
		SELECT serial, user_id, domain, issued_year, status, created_at
		FROM badges
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	var b domain.Badge
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&b.Serial,
		&b.UserID,
		&b.Domain,
		&b.IssuedYear,
		&b.Status,
		&b.CreatedAt,
	)
	return b, err
}
