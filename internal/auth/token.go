// Package auth issues and verifies the signed, time-bounded bearer tokens that
// carry a user's identity between requests.
//
// Tokens are HS256 JWTs. They are stateless: nothing is stored server-side,
// so a token stays valid until it expires. There is no revocation.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Each is a distinct kind so callers can tell them apart.
var (
	ErrTokenMissing          = errors.New("token is missing")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
)

var (
	ErrEmptySecret = errors.New("token secret must not be empty")
	ErrInvalidTTL  = errors.New("token ttl must be positive")
)

// Claims is the token payload. The user ID travels in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenManager signs and verifies tokens with a server-held secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenManager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager creates a TokenManager that issues tokens valid for ttl.
func NewTokenManager(secret []byte, ttl time.Duration, opts ...Option) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	m := &TokenManager{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID that expires after the configured TTL.
func (m *TokenManager) Issue(userID uint64) (IssuedToken, error) {
	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and expiry of tokenString and returns the user
// ID it carries. The returned error wraps exactly one of ErrTokenMissing,
// ErrTokenMalformed, ErrTokenExpired or ErrTokenInvalidSignature.
func (m *TokenManager) Verify(tokenString string) (uint64, error) {
	if tokenString == "" {
		return 0, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, classify(err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("%w: invalid subject", ErrTokenMalformed)
	}

	return userID, nil
}

// classify maps jwt parse errors onto the package's failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims) && !errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
