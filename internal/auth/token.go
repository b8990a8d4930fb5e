package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims is the payload of an issued token. Tokens are signed, not
// encrypted: nothing beyond the username and session id belongs here.
type Claims struct {
	Subject   string
	SessionID string
	Type      TokenType
	ExpiresAt time.Time // zero when the token has no expiry of its own
}

type tokenClaims struct {
	SessionID string    `json:"session_id"`
	Type      TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies tokens with one secret and one HMAC algorithm.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenCodec creates a codec for an HMAC algorithm (HS256, HS384, HS512).
func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and expiry checks.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// Issue signs claims. A positive ttl sets an absolute expiry; zero issues a
// token without one.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	registered := jwt.RegisteredClaims{
		Subject:  claims.Subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(c.method, tokenClaims{
		SessionID:        claims.SessionID,
		Type:             claims.Type,
		RegisteredClaims: registered,
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its
// claims. Every failure is an invalid token error.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, apperrors.NewInvalidTokenError(err.Error())
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewInvalidTokenError("unexpected claims")
	}
	if tc.SessionID == "" {
		return nil, apperrors.NewInvalidTokenError("session_id claim missing")
	}
	if tc.Type == AccessToken && tc.ExpiresAt == nil {
		return nil, apperrors.NewInvalidTokenError("access token without expiry")
	}

	claims := &Claims{
		Subject:   tc.Subject,
		SessionID: tc.SessionID,
		Type:      tc.Type,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
