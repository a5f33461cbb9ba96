package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrEmptyKey   = errors.New("jwtx: empty signing secret")
)

// Minter mints signed tokens for an identity.
type Minter interface {
	Mint(id Identity, kind Kind) (string, error)
}

// Verifier validates a token string and gives back the claims if it's legit.
// Verification failures come back as one of the sentinel errors above so
// callers can tell "expired" from "forged" for logging, while still treating
// both as authentication failure.
type Verifier interface {
	Verify(token string) (IdentityClaims, error)
}

// HS256Codec signs and verifies tokens with a single shared secret. All
// server instances are expected to hold the same secret; there is no key
// rotation and no per-session server-side state.
type HS256Codec struct {
	secret []byte
	issuer string
}

// NewHS256Codec creates a codec from a shared secret. The secret must be
// non-empty; config validation is responsible for refusing to start a
// production deployment without one.
func NewHS256Codec(secret []byte, issuer string) (*HS256Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptyKey
	}
	return &HS256Codec{secret: secret, issuer: issuer}, nil
}

// Mint creates a signed token for the identity. The kind selects the TTL
// (1h access, 7d refresh); everything else about the two tokens is identical.
func (c *HS256Codec) Mint(id Identity, kind Kind) (string, error) {
	return c.Sign(NewIdentityClaims(id, kind.TTL(), c.issuer, time.Now().UTC()))
}

// Sign signs pre-built claims. Mint is the normal entry point; Sign exists so
// callers with unusual lifetimes (tests, mostly) can build their own claims.
func (c *HS256Codec) Sign(claims IdentityClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token string, returning its claims.
func (c *HS256Codec) Verify(tokenStr string) (IdentityClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return IdentityClaims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return IdentityClaims{}, ErrMalformed
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return IdentityClaims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidSig)
	}

	return *claims, nil
}

// mapParseError folds golang-jwt's error tree into our three sentinels.
// The expired case must be checked first: an expired token also fails the
// generic "token is invalid" check.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
