package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token TTL constants for the dual-token session scheme.
const (
	// AccessTokenTTL is the lifetime of an access token. Short-lived so a
	// stolen token has a bounded window of use.
	AccessTokenTTL = time.Hour

	// RefreshTokenTTL is the lifetime of a refresh token. Longer-lived for
	// user convenience; it only ever travels inside an HTTP-only cookie.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Kind selects which TTL a minted token gets.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

// TTL returns the lifetime associated with the token kind.
func (k Kind) TTL() time.Duration {
	if k == KindRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// Identity is the minimal user projection embedded in a token. It is derived
// fresh from the user store at mint time and never trusted from client input.
type Identity struct {
	Subject string // user ID
	Email   string
	Name    string // display name
}

// IdentityClaims are the claims carried by both access and refresh tokens.
// Keeping changes additive preserves compatibility with tokens in flight.
type IdentityClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Identity re-projects the claims back into an Identity value.
func (c *IdentityClaims) Identity() Identity {
	return Identity{Subject: c.Subject, Email: c.Email, Name: c.Name}
}

// NewIdentityClaims builds minimally-correct claims for the given identity.
func NewIdentityClaims(id Identity, ttl time.Duration, issuer string, now time.Time) IdentityClaims {
	return IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: id.Email,
		Name:  id.Name,
	}
}
