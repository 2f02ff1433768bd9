// Package auth issues and validates the bearer tokens that authorize work
// submission when a signing secret is configured.
package auth

import (
	"context"
	"time"
)

// SubmitTokenType is the only token type accepted for work submission.
const SubmitTokenType = "submit"

// JWTService defines operations for managing submitter tokens.
type JWTService interface {
	// GenerateToken creates a signed submit token for subject.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of a submitter token.
type Claims struct {
	// TokenType indicates the purpose of the token; always "submit" once validated.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
