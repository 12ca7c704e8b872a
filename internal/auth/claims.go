package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims the client cares about.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the access token without verifying its signature.
// The backend verifies tokens; the client only reads identity and expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return claims, nil
}
