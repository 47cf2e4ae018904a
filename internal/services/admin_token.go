package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// AdminRole is the role claim required on admin API tokens.
const AdminRole = "admin"

// TokenVerifier issues and checks bearer tokens for the admin API.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured.
func (v *TokenVerifier) Enabled() bool {
	return len(v.secret) > 0
}

// ValidateToken parses and validates a token, returning the claims when it is
// signed with the shared secret, not expired and carries the admin role.
func (v *TokenVerifier) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if !v.Enabled() {
		return nil, fmt.Errorf("admin API is not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if role, _ := claims["role"].(string); role != AdminRole {
		return nil, fmt.Errorf("token does not grant admin access")
	}
	return claims, nil
}

// IssueToken signs an admin token for subject valid for ttl.
func (v *TokenVerifier) IssueToken(subject string, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", fmt.Errorf("admin API is not configured")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": AdminRole,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	})
	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
