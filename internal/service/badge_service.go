package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/engine"
	"shop-shielder/internal/repository"
)

// BadgeService emite certificados en el registro y resuelve la vista
// publica de verificacion.
type BadgeService struct {
	logger        *zap.Logger
	badges        repository.BadgeRepository
	publicBaseURL string
}

var ErrSerialUnknown = errors.New("serial unknown")

func NewBadgeService(logger *zap.Logger, badges repository.BadgeRepository, publicBaseURL string) *BadgeService {
	return &BadgeService{
		logger:        logger,
		badges:        badges,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// EnsureForUser calcula el serial del dominio del usuario y lo registra
// (o refresca) como activo. El serial es recomputable, el registro solo
// existe para que /verify haga un lookup real.
func (s *BadgeService) EnsureForUser(ctx context.Context, user domain.User) (domain.Badge, error) {
	now := time.Now().UTC()
	badge := domain.Badge{
		Serial:     engine.BadgeSerial(user.StoreURL, now),
		UserID:     user.ID,
		Domain:     engine.Normalize(user.StoreURL),
		IssuedYear: now.Year(),
		Status:     domain.BadgeStatusActive,
		CreatedAt:  now,
	}
	if err := s.badges.Upsert(ctx, badge); err != nil {
		return domain.Badge{}, fmt.Errorf("upsert badge: %w", err)
	}
	return badge, nil
}

// Verify resuelve un serial contra el registro. Seriales bien formados que
// no estan registrados se muestran como comerciante autorizado generico;
// todo lo demas es un fallo de registro.
func (s *BadgeService) Verify(ctx context.Context, serial string) (domain.VerificationResult, error) {
	serial = strings.TrimSpace(serial)
	result := domain.VerificationResult{
		Serial:     serial,
		AuditTrail: verificationTrail(serial),
	}

	badge, err := s.badges.GetBySerial(ctx, serial)
	switch {
	case err == nil:
		if badge.Status != domain.BadgeStatusActive {
			return domain.VerificationResult{}, ErrSerialUnknown
		}
		result.Registered = true
		result.StoreLabel = badge.Domain
	case errors.Is(err, pgx.ErrNoRows):
		if !strings.Contains(serial, engine.SerialPrefix) {
			return domain.VerificationResult{}, ErrSerialUnknown
		}
		result.StoreLabel = "Authorized Merchant"
	default:
		return domain.VerificationResult{}, err
	}

	result.Status = "Verified & Monitored"
	result.Checkpoints = []domain.AuditCheckpoint{
		{Label: "Privacy Integrity", Status: "Secure"},
		{Label: "ADA Skip-Links", Status: "Verified"},
		{Label: "CCPA Opt-Out", Status: "Active"},
		{Label: "SSL Verification", Status: "Optimal"},
	}
	return result, nil
}

// verificationTrail devuelve el log ordenado de pasos de verificacion. Se
// entrega como datos; el cliente decide como animarlo.
func verificationTrail(serial string) []string {
	return []string{
		"Initializing global registry lookup...",
		"Querying serial identity " + serial + "...",
		"Validating merchant SSL certificate...",
		"Confirming policy hash synchronization...",
		"Verification complete.",
	}
}

// VerifyURL arma la URL publica del certificado.
func (s *BadgeService) VerifyURL(serial string) string {
	return s.publicBaseURL + "/verify/" + serial
}

// QRPNG renderiza el QR del certificado apuntando a la URL publica.
func (s *BadgeService) QRPNG(serial string) ([]byte, error) {
	return qrcode.Encode(s.VerifyURL(serial), qrcode.Medium, 256)
}

// Scorecard arma el desglose de display del dashboard. Es un artefacto
// puramente visual, determinista por dominio.
func (s *BadgeService) Scorecard(user domain.User) domain.ComplianceScore {
	d := engine.Normalize(user.StoreURL)
	seed := float64(engine.CharSum(d))

	lo, hi := 50, 95
	if user.IsPaid {
		lo, hi = 90, 100
	}
	sub := func(offset float64) int {
		return lo + int(engine.SeededRandom(seed+offset)*float64(hi-lo+1))
	}

	return domain.ComplianceScore{
		Overall:       engine.RiskScore(user.StoreURL, user.IsPaid),
		Privacy:       sub(1.7),
		Accessibility: sub(3.4),
		Safety:        sub(5.1),
		Policies:      sub(6.8),
	}
}
