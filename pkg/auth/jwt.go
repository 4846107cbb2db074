// pkg/auth/jwt.go
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Token type claim values. Parse does NOT enforce the type claim; callers
// decide which kind they accept.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the session claims carried by both token kinds.
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies the access/refresh token pair. It is
// stateless: every operation is a pure function of the configured key, the
// TTLs, and the input.
type TokenManager struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

// NewTokenManager derives the signing key from secret. A base64-encoded
// secret is decoded first; anything that does not decode is used as raw key
// bytes. No rotation is modeled.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	key := []byte(secret)
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) > 0 {
		key = decoded
	}

	return &TokenManager{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     "boardmaster",
	}
}

// AccessTTL returns the configured access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration { return tm.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (tm *TokenManager) RefreshTTL() time.Duration { return tm.refreshTTL }

// IssueAccess creates a signed access token for the user.
func (tm *TokenManager) IssueAccess(userID, email string) (string, error) {
	return tm.issue(userID, email, TokenTypeAccess, tm.accessTTL)
}

// IssueRefresh creates a signed refresh token for the user.
func (tm *TokenManager) IssueRefresh(userID string) (string, error) {
	return tm.issue(userID, "", TokenTypeRefresh, tm.refreshTTL)
}

func (tm *TokenManager) issue(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, structure, and expiry of a token and returns
// its claims. It deliberately does not check the type claim: an access token
// handed to a refresh endpoint is cryptographically valid here and must be
// rejected by the caller.
func (tm *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
