package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gcolon75/Project-Valine-sub011/internal/auth"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
	"github.com/gcolon75/Project-Valine-sub011/internal/utils"
	"github.com/gcolon75/Project-Valine-sub011/internal/validate"
)

const (
	verifyCodePrefix   = "email_verify:"
	refreshTokenPrefix = "refresh_token:"
	authRatePrefix     = "auth_rate:"
)

// UserRepository is the persistence surface AuthService needs.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetVerified(ctx context.Context, id string) error
}

// KVStore is the slice of the Redis client auth flows use.
type KVStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// EmailSender delivers verification mail.
type EmailSender interface {
	SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error
}

type AuthTokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthService struct {
	users       UserRepository
	kv          KVStore
	mailer      EmailSender
	jwt         *auth.JWTManager
	codeTTL     time.Duration
	ratePerHour int
	log         *zap.SugaredLogger
}

func NewAuthService(users UserRepository, kv KVStore, mailer EmailSender, jwt *auth.JWTManager,
	codeTTL time.Duration, ratePerHour int, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:       users,
		kv:          kv,
		mailer:      mailer,
		jwt:         jwt,
		codeTTL:     codeTTL,
		ratePerHour: ratePerHour,
		log:         log,
	}
}

// Register creates an unverified account and mails a verification code.
// Email comparison is case- and whitespace-insensitive.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = validate.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return nil, Invalid(err.Error())
	}
	if err := validate.Password(password); err != nil {
		return nil, Invalid(err.Error())
	}
	if err := validate.DisplayName(displayName); err != nil {
		return nil, Invalid(err.Error())
	}
	if err := s.checkRate(ctx, "register:"+email); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:           utils.NewID(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	code := utils.GenerateCode(6)
	if err := s.kv.Set(ctx, verifyCodePrefix+email, code, s.codeTTL); err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}
	if err := s.mailer.SendVerificationCode(ctx, email, code, s.codeTTL); err != nil {
		// account exists, user can re-request the code
		s.log.Errorw("send verification email", "email", email, "err", err)
	}
	return u, nil
}

// VerifyEmail confirms the code and issues a first session.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*AuthTokens, error) {
	email = validate.NormalizeEmail(email)
	stored, err := s.kv.Get(ctx, verifyCodePrefix+email)
	if err != nil {
		return nil, fmt.Errorf("read verification code: %w", err)
	}
	if stored == "" || stored != code {
		return nil, ErrCodeExpired
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.users.SetVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	_ = s.kv.Delete(ctx, verifyCodePrefix+email)
	return s.issueTokens(ctx, u.ID)
}

// Login checks credentials; unverified accounts are refused even with the
// right password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	email = validate.NormalizeEmail(email)
	if err := s.checkRate(ctx, "login:"+email); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, ErrEmailNotVerified
	}
	return s.issueTokens(ctx, u.ID)
}

// Refresh rotates the refresh token. The stored hash is replaced, so a token
// can only be redeemed once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	userID, err := s.jwt.Verify(refreshToken, "refresh")
	if err != nil {
		return nil, ErrInvalidToken
	}
	stored, err := s.kv.Get(ctx, refreshTokenPrefix+userID)
	if err != nil {
		return nil, err
	}
	if stored == "" || stored != hashToken(refreshToken) {
		return nil, ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.kv.Delete(ctx, refreshTokenPrefix+userID)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (*AuthTokens, error) {
	access, accessExp, err := s.jwt.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.kv.Set(ctx, refreshTokenPrefix+userID, hashToken(refresh), s.jwt.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &AuthTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) checkRate(ctx context.Context, key string) error {
	if s.ratePerHour <= 0 {
		return nil
	}
	count, err := s.kv.IncrWindow(ctx, authRatePrefix+key, time.Hour)
	if err != nil {
		s.log.Errorw("rate limit check", "key", key, "err", err)
		return nil
	}
	if count > int64(s.ratePerHour) {
		return ErrRateLimited
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
