package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/email"
	"shop-shielder/internal/engine"
	"shop-shielder/internal/repository"
)

// AuthService coordina registro, login y recuperacion de contraseña.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	limiter     AttemptLimiter
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, limiter AttemptLimiter) *AuthService {
	if limiter == nil {
		limiter = NewAttemptLimiter(resetTTL, 5)
	}
	return &AuthService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		limiter:     limiter,
	}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrResetNotRequested  = errors.New("reset not requested")
	ErrResetExpired       = errors.New("reset expired")
	ErrResetInvalid       = errors.New("reset token invalid")
)

const (
	resetTTL          = 30 * time.Minute
	minPasswordLength = 8
)

type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	StoreURL  string
}

// SignUp crea el perfil del comerciante con sus metadatos de tienda.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return domain.User{}, ErrInvalidEmail
	}
	password := strings.TrimSpace(input.Password)
	if len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidPassword
	}

	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	storeURL := strings.TrimSpace(input.StoreURL)
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		StoreURL:     storeURL,
		StoreName:    domain.DeriveStoreName(engine.Normalize(storeURL)),
		Onboarded:    false,
		IsPaid:       false,
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate valida credenciales; responde igual para email desconocido y
// contraseña erronea.
func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow("login:"+emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset genera un token de un solo uso y envia el enlace de
// recuperacion. El enlace termina en el fragmento type=recovery que el
// frontend usa para abrir el modal en modo reset. Para emails desconocidos
// no se revela nada al llamador.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr, publicBaseURL string) error {
	if s.users == nil {
		return errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrInvalidEmail
	}
	if s.limiter != nil && !s.limiter.Allow("reset:"+emailAddr) {
		return ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if s.logger != nil {
				s.logger.Info("reset requested for unknown email", zap.String("email", emailAddr))
			}
			return nil
		}
		return err
	}

	token, hash, expiresAt, err := generateResetToken()
	if err != nil {
		return err
	}
	if err := s.users.UpdateResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/#reset_token=%s&type=recovery", strings.TrimRight(publicBaseURL, "/"), token)
	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	if err := s.emailSender.SendPasswordReset(ctx, emailAddr, link, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send password reset failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// ResetPassword consume el token de recuperacion y fija la nueva contraseña.
func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, token, newPassword string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(newPassword) < minPasswordLength {
		return domain.User{}, ErrInvalidPassword
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if user.ResetTokenHash == "" || user.ResetExpiresAt == nil {
		return domain.User{}, ErrResetNotRequested
	}
	if time.Now().UTC().After(*user.ResetExpiresAt) {
		return domain.User{}, ErrResetExpired
	}
	if !verifyResetToken(token, user.ResetTokenHash) {
		return domain.User{}, ErrResetInvalid
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashBytes)); err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = string(hashBytes)
	user.ResetTokenHash = ""
	user.ResetExpiresAt = nil
	return user, nil
}

// UpdateStore actualiza los metadatos de tienda del perfil y lo marca como
// onboarded.
func (s *AuthService) UpdateStore(ctx context.Context, userID, storeURL string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	storeURL = strings.TrimSpace(storeURL)
	storeName := domain.DeriveStoreName(engine.Normalize(storeURL))
	if err := s.users.UpdateMetadata(ctx, user.ID, storeURL, storeName, true); err != nil {
		return domain.User{}, err
	}

	user.StoreURL = storeURL
	user.StoreName = storeName
	user.Onboarded = true
	return user, nil
}

// GetProfile carga el perfil por id.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func generateResetToken() (string, string, time.Time, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", time.Time{}, err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + token))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	expiresAt := time.Now().UTC().Add(resetTTL)
	return token, saltStr + ":" + hash, expiresAt, nil
}

func verifyResetToken(token, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + token))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
