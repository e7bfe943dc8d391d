package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/repository"
)

// CheckoutService completa la compra de un plan: marca el perfil como
// pagado y deja el badge activo en el registro.
type CheckoutService struct {
	logger *zap.Logger
	users  repository.UserRepository
	badges *BadgeService
}

var ErrInvalidSelection = errors.New("invalid plan selection")

func NewCheckoutService(logger *zap.Logger, users repository.UserRepository, badges *BadgeService) *CheckoutService {
	return &CheckoutService{
		logger: logger,
		users:  users,
		badges: badges,
	}
}

// Complete persiste plan e intervalo elegidos y emite el certificado.
func (s *CheckoutService) Complete(ctx context.Context, userID string, sel domain.CheckoutSelection) (domain.User, error) {
	if !sel.Plan.Valid() || !sel.Interval.Valid() {
		return domain.User{}, ErrInvalidSelection
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if err := s.users.MarkPaid(ctx, user.ID, sel.Plan, sel.Interval); err != nil {
		return domain.User{}, err
	}
	user.IsPaid = true
	user.Plan = sel.Plan
	user.Interval = sel.Interval

	if s.badges != nil {
		if _, err := s.badges.EnsureForUser(ctx, user); err != nil {
			// El badge es recomputable: no bloquea el checkout.
			s.logger.Warn("badge issue after checkout failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	return user, nil
}
