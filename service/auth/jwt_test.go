package auth

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func init() {
	viper.SetDefault("AUTH_JWT_SECRET", "test-secret")
}

func TestAuthTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := persist.GenerateID()
	sessionID := persist.GenerateID()
	roles := []persist.Role{persist.RoleUser, persist.RoleAdmin}

	token, err := GenerateAuthToken(ctx, userID, sessionID, roles)
	require.NoError(t, err)

	claims, err := ParseAuthToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, TokenTypeAuth, claims.TokenType)
	assert.Equal(t, "vivemedellin", claims.Issuer)
}

func TestParseAuthToken_RejectsGarbage(t *testing.T) {
	_, err := ParseAuthToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseAuthToken_RejectsTamperedToken(t *testing.T) {
	ctx := context.Background()

	token, err := GenerateAuthToken(ctx, persist.GenerateID(), persist.GenerateID(), nil)
	require.NoError(t, err)

	_, err = ParseAuthToken(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseAuthToken_RejectsExpiredToken(t *testing.T) {
	ctx := context.Background()

	viper.Set("AUTH_JWT_TTL", -60)
	defer viper.Set("AUTH_JWT_TTL", 86400)

	token, err := GenerateAuthToken(ctx, persist.GenerateID(), persist.GenerateID(), nil)
	require.NoError(t, err)

	_, err = ParseAuthToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}
