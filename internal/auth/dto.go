package auth

import (
	"github.com/dashty/shoe-store-backend/internal/users"
	"github.com/dashty/shoe-store-backend/pkg/auth"
)

// RegisterInput carries a self-registration request. Secret must match the
// configured registration secret.
type RegisterInput struct {
	Name        string
	PhoneNumber string
	Password    string
	Secret      string
	IPAddress   *string
	UserAgent   *string
}

// LoginInput carries a credential check.
type LoginInput struct {
	PhoneNumber string
	Password    string
	IPAddress   *string
	UserAgent   *string
}

// Session is the result of a successful register, login or refresh.
type Session struct {
	User   users.View     `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}
