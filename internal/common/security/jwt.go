package security

import (
	"context"
	"errors"
	"time"

	"inkpress/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenExpiry = 7 * 24 * time.Hour

// Identity is the claim set carried by an issued token.
type Identity struct {
	ID   string
	Role string
}

// TokenManager issues and verifies signed bearer tokens. It carries its own
// secret and expiry so no package-level token state exists; construct one in
// main and pass it where needed.
type TokenManager struct {
	auth   *jwtauth.JWTAuth
	expiry time.Duration
}

func NewTokenManager(secret []byte, expiry time.Duration) *TokenManager {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenManager{
		auth:   jwtauth.New("HS256", secret, nil),
		expiry: expiry,
	}
}

// JWTAuth exposes the underlying verifier for the router's jwtauth.Verifier
// middleware.
func (m *TokenManager) JWTAuth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

// Issue signs a token for identity, valid for the configured expiry from now.
func (m *TokenManager) Issue(identity Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": identity.ID,
		"role":    identity.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(m.expiry).Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return "", common.Errorf("failed to encode token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// It deliberately does not check that the subject still exists; callers
// re-resolve the identity from the store and report NotFound themselves.
func (m *TokenManager) Verify(tokenString string) (Identity, error) {
	token, err := jwtauth.VerifyToken(m.auth, tokenString)
	if err != nil {
		return Identity{}, common.Errorf("token rejected: %w", common.ErrInvalidToken)
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Identity{}, common.Errorf("token claims unreadable: %w", common.ErrInvalidToken)
	}
	id, err := GetUserIDFromClaims(claims)
	if err != nil {
		return Identity{}, common.Errorf("%v: %w", err, common.ErrInvalidToken)
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return Identity{}, common.Errorf("%v: %w", err, common.ErrInvalidToken)
	}
	return Identity{ID: id, Role: role}, nil
}

// Claim helpers shared with the auth middleware, which receives claims as a
// plain map from the request context.

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
