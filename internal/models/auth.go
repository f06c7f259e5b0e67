package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes carried in JWT claims.
const (
	TokenPurposeMagicLink = "magic_link"
	TokenPurposeAccess    = "access"
)

// LoginRequest holds the credentials submitted on the login form.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe *bool  `json:"remember_me"`
	IP         string `json:"-"`
	UserAgent  string `json:"-"`
}

// LoginResponse acknowledges that a magic link is on its way.
type LoginResponse struct {
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyMagicLinkRequest exchanges a magic-link token for an access token.
type VerifyMagicLinkRequest struct {
	Token string `json:"token" validate:"required"`
}

// AccessTokenResponse returns the issued access token.
type AccessTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Account     Account   `json:"account"`
}

// PasswordStrengthRequest carries a candidate password for scoring.
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// JWTClaims is the payload shared by magic-link and access tokens.
type JWTClaims struct {
	AccountID   string      `json:"account_id"`
	AccountType AccountType `json:"account_type"`
	Email       string      `json:"email"`
	Purpose     string      `json:"purpose"`
	RememberMe  bool        `json:"remember_me,omitempty"`
	jwt.RegisteredClaims
}
