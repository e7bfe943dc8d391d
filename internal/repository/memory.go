package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"shop-shielder/internal/domain"
)

// MemoryUserRepository es la implementacion en memoria usada en modo preview
// y en tests. Mantiene la semantica del repo pg, incluido pgx.ErrNoRows.
type MemoryUserRepository struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	if user.Email != "" {
		r.byEmail[strings.ToLower(user.Email)] = user.ID
	}
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return r.getLocked(id)
}

func (r *MemoryUserRepository) getLocked(id string) (domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *MemoryUserRepository) UpdateMetadata(_ context.Context, id, storeURL, storeName string, onboarded bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, err := r.getLocked(id)
	if err != nil {
		return err
	}
	user.StoreURL = storeURL
	user.StoreName = storeName
	user.Onboarded = onboarded
	r.byID[id] = user
	return nil
}

func (r *MemoryUserRepository) MarkPaid(_ context.Context, id string, plan domain.SubscriptionPlan, interval domain.BillingInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, err := r.getLocked(id)
	if err != nil {
		return err
	}
	user.IsPaid = true
	user.Plan = plan
	user.Interval = interval
	r.byID[id] = user
	return nil
}

func (r *MemoryUserRepository) UpdateResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, err := r.getLocked(id)
	if err != nil {
		return err
	}
	user.ResetTokenHash = tokenHash
	user.ResetExpiresAt = &expiresAt
	r.byID[id] = user
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, err := r.getLocked(id)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = ""
	user.ResetExpiresAt = nil
	r.byID[id] = user
	return nil
}

// MemoryBadgeRepository es el registro de certificados en memoria.
type MemoryBadgeRepository struct {
	mu       sync.Mutex
	bySerial map[string]domain.Badge
}

func NewMemoryBadgeRepository() *MemoryBadgeRepository {
	return &MemoryBadgeRepository{
		bySerial: make(map[string]domain.Badge),
	}
}

func (r *MemoryBadgeRepository) Upsert(_ context.Context, badge domain.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySerial[badge.Serial] = badge
	return nil
}

func (r *MemoryBadgeRepository) GetBySerial(_ context.Context, serial string) (domain.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	badge, ok := r.bySerial[serial]
	if !ok {
		return domain.Badge{}, pgx.ErrNoRows
	}
	return badge, nil
}

func (r *MemoryBadgeRepository) GetActiveByUser(_ context.Context, userID string) (domain.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		latest domain.Badge
		found  bool
	)
	for _, badge := range r.bySerial {
		if badge.UserID != userID || badge.Status != domain.BadgeStatusActive {
			continue
		}
		if !found || badge.CreatedAt.After(latest.CreatedAt) {
			latest = badge
			found = true
		}
	}
	if !found {
		return domain.Badge{}, pgx.ErrNoRows
	}
	return latest, nil
}
