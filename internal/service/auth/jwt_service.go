package auth

import (
	"context"

	"github.com/google/uuid"
)

// JWTService generates and validates the access tokens that identify
// callers of the API.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies tokenString and returns its claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for
	// any other validation failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims holds the validated identity carried by a token.
type Claims struct {
	UserID uuid.UUID
}
