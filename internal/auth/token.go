// Package auth validates access tokens issued by the auth service
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator validates HS256 access tokens signed with a shared secret
type TokenValidator struct {
	secret string
}

// NewTokenValidator creates a new token validator
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{
		secret: secret,
	}
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tv *TokenValidator) ValidateAccessToken(tokenString string) (int, int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tv.secret), nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, 0, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, 0, fmt.Errorf("token is not an access token")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, 0, fmt.Errorf("user_id not found in token")
	}

	role, ok := claims["role"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("role not found in token")
	}

	return int(userID), int(role), nil
}
