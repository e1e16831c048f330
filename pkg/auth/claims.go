package auth

import (
	"github.com/dashty/shoe-store-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two JWT families we mint.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID      uuid.UUID
	PhoneNumber string
	Role        enums.Role
}

// Claims represents the typed JWT issued to clients.
type Claims struct {
	UserID      uuid.UUID  `json:"user_id"`
	PhoneNumber string     `json:"phone_number"`
	Role        enums.Role `json:"role"`
	Kind        TokenKind  `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair bundles the access and refresh tokens returned on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
