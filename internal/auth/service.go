package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dewabisma/parfum-api/internal/config"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/repository"
)

const bcryptCost = 10

// Claims is the JWT session payload.
type Claims struct {
	UserID   int64             `json:"id"`
	Role     domain.UserRole   `json:"role"`
	Username *string           `json:"username"`
	Status   domain.UserStatus `json:"status"`
	jwt.RegisteredClaims
}

// Service implements account registration, login, and the verification and
// password-reset token flows.
type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cfg    config.AuthConfig
	logger zerolog.Logger
}

// NewService creates a new auth service
func NewService(users repository.UserRepository, tokens repository.TokenRepository, cfg config.AuthConfig, logger zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, cfg: cfg, logger: logger}
}

// RegisterInput is the payload for local registration.
type RegisterInput struct {
	Username    string  `json:"username" validate:"required,min=3,max=255"`
	Email       string  `json:"email" validate:"required,email"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,len=10"`
	Password    string  `json:"password" validate:"required,min=8"`
}

// RegisterOAuthInput is the payload for oauth-backed registration.
type RegisterOAuthInput struct {
	Provider domain.OauthProvider `json:"provider" validate:"required,oneof=google"`
	UID      string               `json:"uid" validate:"required"`
	Email    string               `json:"email" validate:"required,email"`
	Username *string              `json:"username"`
}

// Register creates an inactive account and issues its verification token.
// The token is returned to the caller since mail delivery is disabled.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}
	password := string(hashed)

	user, err := s.users.Create(ctx, domain.CreateUser{
		Username:    &input.Username,
		Email:       &input.Email,
		DateOfBirth: input.DateOfBirth,
		Password:    &password,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Create(ctx, user.ID, domain.TokenTypeAccountVerification)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("registered new account")
	return user, token, nil
}

// RegisterOAuth creates an account that is active immediately and stores an
// oauth token for the provider handshake.
func (s *Service) RegisterOAuth(ctx context.Context, input RegisterOAuthInput) (domain.User, string, error) {
	user, err := s.users.Create(ctx, domain.CreateUser{
		Username:      input.Username,
		Email:         &input.Email,
		OauthProvider: &input.Provider,
		OauthUID:      &input.UID,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	if err := s.users.UpdateStatus(ctx, user.ID, domain.UserStatusActive); err != nil {
		return domain.User{}, "", err
	}
	user.Status = domain.UserStatusActive

	token, err := s.tokens.Create(ctx, user.ID, domain.TokenTypeOAuth)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("provider", string(input.Provider)).Msg("registered oauth account")
	return user, token, nil
}

// Login checks credentials against the stored hash and returns the user with
// a signed session token. The login value matches either email or username.
func (s *Service) Login(ctx context.Context, login, password string) (domain.User, string, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, "", domain.NewBadRequest("Invalid login input.")
		}
		return domain.User{}, "", err
	}

	if user.Status == domain.UserStatusInactive {
		return domain.User{}, "", domain.NewUnauthorized("account is not verified yet")
	}
	if user.Password == nil {
		return domain.User{}, "", domain.NewBadRequest("Invalid login input.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return domain.User{}, "", domain.NewBadRequest("Invalid login input.")
	}

	token, err := s.SignToken(user)
	if err != nil {
		return domain.User{}, "", err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to stamp last login")
	}

	user.Password = nil
	return user, token, nil
}

// SignToken issues a session JWT carrying the user's identity claims.
func (s *Service) SignToken(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		Status:   user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session JWT and returns its claims.
func (s *Service) ParseToken(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return Claims{}, domain.NewUnauthenticated("session token is invalid")
	}
	return claims, nil
}

// freshToken swaps a user's stored token of the given type for a new one.
func (s *Service) freshToken(ctx context.Context, userID int64, tokenType domain.TokenType) (string, error) {
	if err := s.tokens.Delete(ctx, userID, tokenType); err != nil {
		return "", err
	}
	return s.tokens.Create(ctx, userID, tokenType)
}

// VerifyAccount activates the account behind a verification token. An
// expired token is replaced before the failure is reported so the user can
// retry with the reissued one.
func (s *Service) VerifyAccount(ctx context.Context, token string) error {
	user, stored, err := s.tokens.GetByToken(ctx, token, domain.TokenTypeAccountVerification)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewBadRequest("verification token is invalid")
		}
		return err
	}

	if time.Since(stored.CreatedAt) > s.cfg.VerifyTokenTTL {
		if _, err := s.freshToken(ctx, user.ID, domain.TokenTypeAccountVerification); err != nil {
			return err
		}
		return domain.NewBadRequest("verification token is expired, a new one has been issued")
	}

	if err := s.users.UpdateStatus(ctx, user.ID, domain.UserStatusActive); err != nil {
		return err
	}
	return s.tokens.Delete(ctx, user.ID, domain.TokenTypeAccountVerification)
}

// RequestPasswordReset issues a password-reset token for the account behind
// the email, replacing any earlier one.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.freshToken(ctx, user.ID, domain.TokenTypeAccountPasswordReset)
}

// ResetPassword replaces the password behind a reset token. Expired tokens
// are reissued the same way verification tokens are.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, stored, err := s.tokens.GetByToken(ctx, token, domain.TokenTypeAccountPasswordReset)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewBadRequest("reset token is invalid")
		}
		return err
	}

	if time.Since(stored.CreatedAt) > s.cfg.ResetTokenTTL {
		if _, err := s.freshToken(ctx, user.ID, domain.TokenTypeAccountPasswordReset); err != nil {
			return err
		}
		return domain.NewBadRequest("reset token is expired, a new one has been issued")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}
	return s.tokens.Delete(ctx, user.ID, domain.TokenTypeAccountPasswordReset)
}

// ValidateOauthToken resolves the user behind a stored oauth token.
func (s *Service) ValidateOauthToken(ctx context.Context, token string) (domain.User, error) {
	user, _, err := s.tokens.GetByToken(ctx, token, domain.TokenTypeOAuth)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, domain.NewUnauthenticated("oauth token is invalid")
		}
		return domain.User{}, err
	}
	return user, nil
}
