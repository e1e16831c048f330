package auth

import (
	"fmt"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintPair issues an access + refresh token pair for the payload.
func MintPair(cfg config.JWTConfig, now time.Time, payload TokenPayload) (TokenPair, error) {
	access, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := MintRefreshToken(cfg, now, payload)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// MintAccessToken issues a signed JWT for the provided payload using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.Secret, cfg, now, payload, TokenKindAccess, cfg.AccessTokenTTL())
}

// MintRefreshToken issues a long-lived JWT signed with the refresh secret.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.RefreshSecret, cfg, now, payload, TokenKindRefresh, cfg.RefreshTokenTTL())
}

func mint(secret string, cfg config.JWTConfig, now time.Time, payload TokenPayload, kind TokenKind, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("jwt ttl must be positive")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid role %q", payload.Role)
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}

	claims := Claims{
		UserID:      payload.UserID,
		PhoneNumber: payload.PhoneNumber,
		Role:        payload.Role,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates an access JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.Secret, cfg, tokenString, TokenKindAccess)
}

// ParseRefreshToken validates a refresh JWT against the refresh secret.
func ParseRefreshToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.RefreshSecret, cfg, tokenString, TokenKindRefresh)
}

func parse(secret string, cfg config.JWTConfig, tokenString string, kind TokenKind) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("unexpected token kind %q", claims.Kind)
	}

	return claims, nil
}
