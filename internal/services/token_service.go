package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token scopes. One signing key and algorithm serve all three; only the scope
// claim and TTL differ.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrScopeMismatch    = errors.New("invalid scope for token")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, expiring, scope-tagged tokens.
type TokenService struct {
	secret        []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	EmailTokenTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL, emailTokenTTL time.Duration) *TokenService {
	return &TokenService{
		secret:        []byte(secret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		EmailTokenTTL: emailTokenTTL,
	}
}

func (s *TokenService) Issue(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// jti keeps two tokens minted within the same second distinct,
			// otherwise rotation could reissue the exact same string
			ID: uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", scope, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and scope, in that order, and returns the
// subject claim. Callers must not echo the distinction between the three
// failures to clients.
func (s *TokenService) Verify(tokenStr, expectedScope string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// accept HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidSignature
	}
	if !token.Valid {
		return "", ErrInvalidSignature
	}
	if claims.Scope != expectedScope {
		return "", ErrScopeMismatch
	}
	return claims.Subject, nil
}
