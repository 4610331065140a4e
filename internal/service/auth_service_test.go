package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantahire/internal/config"
	"vantahire/internal/domain"
	"vantahire/internal/repository"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuthService(t *testing.T) (domain.AuthenticationService, *fakeUserRepo, domain.SessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newFakeUserRepo()
	sessions := repository.NewSessionRepository(client)
	svc := NewAuthenticationService(config.JWTConfig{Secret: testSecret}, users, sessions)
	return svc, users, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &domain.User{Username: " jane@example.com ", Role: domain.RoleRecruiter}, "secret123", "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Username)
	assert.NotEqual(t, "secret123", res.User.HashedPassword)
	require.NotNil(t, res.Tokens)

	info, err := svc.ValidateAccessToken(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, info.UserID)
	assert.Equal(t, domain.RoleRecruiter, info.Role)

	_, err = svc.Login(ctx, "jane@example.com", "wrong", "ua", "ip")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := svc.Login(ctx, "JANE@example.com", "secret123", "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.SessionID, login.Tokens.SessionID)
}

func TestRegisterRules(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &domain.User{Username: "cand"}, "secret123", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCandidate, res.User.Role)

	_, err = svc.Register(ctx, &domain.User{Username: "cand"}, "secret123", "", "")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = svc.Register(ctx, &domain.User{Username: "boss", Role: domain.RoleAdmin}, "secret123", "", "")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "role", vErr.Field)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &domain.User{Username: "bob"}, "secret123", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, res.Tokens.SessionID))

	_, err = svc.ValidateAccessToken(ctx, res.Tokens.AccessToken)
	assert.Error(t, err)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &domain.User{Username: "rita"}, "secret123", "", "")
	require.NoError(t, err)

	pair, err := svc.RefreshAccessToken(ctx, res.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.SessionID, pair.SessionID)

	_, err = svc.RefreshAccessToken(ctx, res.Tokens.RefreshToken, "", "")
	assert.Error(t, err, "old refresh token must not be reusable")

	_, err = svc.RefreshAccessToken(ctx, pair.AccessToken, "", "")
	assert.Error(t, err, "access token is not a refresh token")
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	claims := &Claims{
		UserID:    1,
		Role:      domain.RoleAdmin,
		SessionID: "c7b3d8e0-5e0b-4b0f-8b3a-3c9b1e8b8f1a",
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, forged)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, unsigned)
	assert.Error(t, err)

	// valid signature but no session behind it
	orphan, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, orphan)
	assert.Error(t, err)
}

func TestRoleComesFromSession(t *testing.T) {
	svc, users, sessions := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &domain.User{Username: "mia"}, "secret123", "", "")
	require.NoError(t, err)

	// a role change revokes sessions, so the old token stops working
	require.NoError(t, users.UpdateRole(ctx, res.User.ID, domain.RoleRecruiter))
	require.NoError(t, sessions.DeleteByUserID(ctx, res.User.ID))
	_, err = svc.ValidateAccessToken(ctx, res.Tokens.AccessToken)
	assert.Error(t, err)

	login, err := svc.Login(ctx, "mia", "secret123", "", "")
	require.NoError(t, err)
	info, err := svc.ValidateAccessToken(ctx, login.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruiter, info.Role)
}
