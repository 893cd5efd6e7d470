package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func init() {
	env.RegisterValidation("AUTH_JWT_SECRET", "")
	env.RegisterValidation("AUTH_JWT_TTL", 86400)
}

type TokenType string

const (
	TokenTypeAuth TokenType = "auth"
)

type ViveClaims struct {
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthTokenClaims struct {
	UserID    persist.DBID   `json:"user_id"`
	SessionID persist.DBID   `json:"session_id"` // The session this auth token belongs to
	Roles     []persist.Role `json:"roles"`
	ViveClaims
}

func GenerateAuthToken(ctx context.Context, userID persist.DBID, sessionID persist.DBID, roles []persist.Role) (string, error) {
	secret := env.GetString("AUTH_JWT_SECRET")
	validFor := time.Duration(env.GetInt64("AUTH_JWT_TTL")) * time.Second

	claims := AuthTokenClaims{
		UserID:     userID,
		SessionID:  sessionID,
		Roles:      roles,
		ViveClaims: newViveClaims(TokenTypeAuth, validFor),
	}

	return generateJWT(claims, secret)
}

func ParseAuthToken(ctx context.Context, token string) (AuthTokenClaims, error) {
	claims := AuthTokenClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, &claims, keyFunc(env.GetString("AUTH_JWT_SECRET")))

	if err != nil || !parsedToken.Valid {
		return AuthTokenClaims{}, ErrInvalidJWT
	}

	return claims, nil
}

func newViveClaims(tokenType TokenType, validFor time.Duration) ViveClaims {
	claims := ViveClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validFor)),
			Issuer:    "vivemedellin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	return claims
}

func generateJWT(claims jwt.Claims, jwtSecret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	jwtToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", err
	}

	return jwtToken, nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}
}
