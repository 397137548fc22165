package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "typ" claim.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// AuthClaims represents validated token claims. Implementations must only be
// constructed after signature verification succeeds.
type AuthClaims interface {
	Subject() string
	UserID() string
	DisplayName() string
	RoleCode() string
	Authorities() []string
	TokenKind() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. Claim names and
// types are fixed at compile time; the generic claim map exists only on the
// wire.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string   `json:"uid,omitempty"`
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Authority []string `json:"authorities,omitempty"`
	Kind      string   `json:"typ,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim.
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// DisplayName returns the display name embedded at issuance time.
func (c *JWTClaims) DisplayName() string {
	return c.Name
}

// RoleCode returns the role discriminator.
func (c *JWTClaims) RoleCode() string {
	return c.Role
}

// Authorities returns the granted authorities snapshot.
func (c *JWTClaims) Authorities() []string {
	return c.Authority
}

// TokenKind reports whether this is an access or refresh token. Tokens
// without an explicit kind are treated as access tokens.
func (c *JWTClaims) TokenKind() string {
	if c.Kind == "" {
		return TokenKindAccess
	}
	return c.Kind
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *JWTClaims) IsRefresh() bool {
	return c.Kind == TokenKindRefresh
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
