package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim on every token this service mints.
const Issuer = "bookshelf"

// ErrInvalidToken is returned for any token that is malformed, tampered,
// signed with another algorithm or key, issued by someone else, or expired.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens mints and checks HS256 bearer tokens bound to a user id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret as the HMAC key and ttl as the
// token lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	cp := *t
	cp.now = now
	return &cp
}

// Issue creates a signed token for userID and reports when it expires.
func (t *Tokens) Issue(userID uint) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature, issuer and expiry of token and returns the
// user id it was issued for.
func (t *Tokens) Verify(token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Issuer != Issuer {
		return 0, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(t.now()) {
		return 0, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if claims.UserID == 0 {
		return 0, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	return claims.UserID, nil
}
