package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/service/session"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := session.Claims{
		UserID: "u1",
		Nombre: "Marta",
		Email:  "marta@example.com",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret}
}

func TestNewService_StartsLoggedOut(t *testing.T) {
	svc := session.NewService(testConfig(), nil)

	assert.Empty(t, svc.Token())
	assert.Nil(t, svc.User())
}

func TestNewService_LoadsConfiguredToken(t *testing.T) {
	cfg := testConfig()
	cfg.SocketToken = signToken(t, testSecret, time.Hour)

	svc := session.NewService(cfg, nil)

	assert.Equal(t, cfg.SocketToken, svc.Token())
}

func TestNewService_RejectsStaleConfiguredToken(t *testing.T) {
	cfg := testConfig()
	cfg.SocketToken = signToken(t, testSecret, -time.Minute)

	svc := session.NewService(cfg, nil)

	assert.Empty(t, svc.Token())
}

func TestSetToken(t *testing.T) {
	svc := session.NewService(testConfig(), nil)
	token := signToken(t, testSecret, time.Hour)

	require.NoError(t, svc.SetToken(context.Background(), token))

	assert.Equal(t, token, svc.Token())
	user := svc.User()
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Marta", user.Nombre)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestSetToken_RejectsBadSignature(t *testing.T) {
	svc := session.NewService(testConfig(), nil)
	token := signToken(t, "other-secret", time.Hour)

	err := svc.SetToken(context.Background(), token)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
	assert.Empty(t, svc.Token())
}

func TestSetToken_RejectsExpired(t *testing.T) {
	svc := session.NewService(testConfig(), nil)
	token := signToken(t, testSecret, -time.Minute)

	err := svc.SetToken(context.Background(), token)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestClear(t *testing.T) {
	svc := session.NewService(testConfig(), nil)
	require.NoError(t, svc.SetToken(context.Background(), signToken(t, testSecret, time.Hour)))

	svc.Clear(context.Background())

	assert.Empty(t, svc.Token())
	assert.Nil(t, svc.User())
}

func TestValidate(t *testing.T) {
	svc := session.NewService(testConfig(), nil)

	claims, err := svc.Validate(signToken(t, testSecret, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = svc.Validate("definitely-not-a-jwt")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestWatch_PublishesCredentialChanges(t *testing.T) {
	svc := session.NewService(testConfig(), nil)
	token := signToken(t, testSecret, time.Hour)

	var seen []string
	cancel := svc.Watch(func(tok string) { seen = append(seen, tok) })
	defer cancel()

	require.NoError(t, svc.SetToken(context.Background(), token))
	svc.Clear(context.Background())

	assert.Equal(t, []string{token, ""}, seen)
}
