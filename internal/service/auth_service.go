package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/validation"
)

// Authenticator is the admin authentication capability handed to handlers
// and middleware.
type Authenticator interface {
	Login(ctx context.Context, credentials models.Credentials) (*models.Session, error)
	IsAuthenticated(token string) bool
	ValidateToken(token string) (*models.JWTClaims, error)
}

// AuthConfig holds the admin account and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash string
	TokenSecret  string
	TokenExpiry  time.Duration
	Issuer       string
}

// AdminAuthService authenticates the single configured admin account.
type AdminAuthService struct {
	validator *validation.Validator
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

var _ Authenticator = (*AdminAuthService)(nil)

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(validator *validation.Validator, logger *zap.Logger, config AuthConfig) *AdminAuthService {
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	if config.PasswordHash == "" {
		logger.Warn("admin password hash not configured; admin login disabled")
	}
	return &AdminAuthService{validator: validator, logger: logger, config: config, now: time.Now}
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials against the configured admin and issues a token.
func (s *AdminAuthService) Login(_ context.Context, credentials models.Credentials) (*models.Session, error) {
	if details := s.validator.Struct(credentials); details != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid login payload"), details)
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(credentials.Username), []byte(s.config.Username)) == 1
	if !usernameOK || s.config.PasswordHash == "" {
		s.logger.Info("admin login rejected", zap.String("username", credentials.Username))
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(credentials.Password)); err != nil {
		s.logger.Info("admin login rejected", zap.String("username", credentials.Username))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, issuedAt, expiresAt, err := s.generateAccessToken(credentials.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}

	s.logger.Info("admin logged in", zap.String("username", credentials.Username))
	return &models.Session{
		AccessToken: token,
		Username:    credentials.Username,
		ExpiresIn:   int64(expiresAt.Sub(issuedAt).Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// IsAuthenticated reports whether token is a valid admin session.
func (s *AdminAuthService) IsAuthenticated(token string) bool {
	claims, err := s.ValidateToken(token)
	return err == nil && claims.Role == models.RoleAdmin
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AdminAuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token issuer")
	}
	return claims, nil
}

func (s *AdminAuthService) generateAccessToken(username string) (string, time.Time, time.Time, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		Username: username,
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return signed, issuedAt, expiresAt, nil
}
