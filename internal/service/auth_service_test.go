package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AdminAuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthService(nil, nil, AuthConfig{
		Username:     "admin",
		PasswordHash: string(hash),
		TokenSecret:  "test-secret",
		TokenExpiry:  time.Hour,
		Issuer:       "tutor-directory",
	})
}

func TestAdminAuthServiceLogin(t *testing.T) {
	svc := newTestAuthService(t)

	session, err := svc.Login(context.Background(), models.Credentials{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.True(t, svc.IsAuthenticated(session.AccessToken))

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "tutor-directory", claims.Issuer)
}

func TestAdminAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	for _, creds := range []models.Credentials{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "s3cret"},
	} {
		_, err := svc.Login(context.Background(), creds)
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
	}

	_, err := svc.Login(context.Background(), models.Credentials{})
	require.Error(t, err)
	assert.Len(t, appErrors.FromError(err).Details, 2)
}

func TestAdminAuthServiceWithoutHashRejectsEveryone(t *testing.T) {
	svc := NewAdminAuthService(nil, nil, AuthConfig{Username: "admin", TokenSecret: "x"})
	_, err := svc.Login(context.Background(), models.Credentials{Username: "admin", Password: ""})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.Credentials{Username: "admin", Password: "anything"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAdminAuthServiceIsAuthenticatedRejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t)

	assert.False(t, svc.IsAuthenticated(""))
	assert.False(t, svc.IsAuthenticated("not-a-token"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.False(t, svc.IsAuthenticated(signed))
}

func TestAdminAuthServiceExpiredToken(t *testing.T) {
	svc := newTestAuthService(t)
	past := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }

	session, err := svc.Login(context.Background(), models.Credentials{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(session.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("pa55")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pa55")))
}
