package session

import (
	"fmt"
	"time"
)

// Principal is the identity attached to an authenticated request. It is
// constructed fresh per request from a token or a credential record and is
// never persisted.
type Principal struct {
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	RoleCode    string   `json:"roleCode"`
	Authorities []string `json:"authorities"`
}

// NewPrincipal builds a Principal deriving its authorities from the role code.
func NewPrincipal(userID, displayName, roleCode string) Principal {
	return Principal{
		UserID:      userID,
		DisplayName: displayName,
		RoleCode:    roleCode,
		Authorities: AuthoritiesFor(roleCode),
	}
}

// PrincipalFromClaims rebuilds a Principal from validated token claims.
// Callers that need fresh role or lockout state should re-load the credential
// record instead of trusting the snapshot embedded at issuance time.
func PrincipalFromClaims(claims AuthClaims) Principal {
	if claims == nil {
		return Principal{}
	}

	authorities := claims.Authorities()
	if len(authorities) == 0 {
		authorities = AuthoritiesFor(claims.RoleCode())
	}

	return Principal{
		UserID:      claims.UserID(),
		DisplayName: claims.DisplayName(),
		RoleCode:    claims.RoleCode(),
		Authorities: authorities,
	}
}

// HasAuthority reports whether the principal carries the given authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal's role code matches.
func (p Principal) HasRole(roleCode string) bool {
	return p.RoleCode == roleCode
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.UserID == ""
}

func (p Principal) String() string {
	return fmt.Sprintf("user=%s role=%s authorities=%v", p.UserID, p.RoleCode, p.Authorities)
}

// SessionSnapshot is what the session-check endpoint and the userInfo cookie
// expose to clients: the principal plus the access token expiry so front ends
// can schedule silent refresh. It is a read model, never a security boundary.
type SessionSnapshot struct {
	Principal
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// NewSessionSnapshot pairs a principal with an expiry in epoch milliseconds.
func NewSessionSnapshot(p Principal, expiresAt time.Time) SessionSnapshot {
	s := SessionSnapshot{Principal: p}
	if !expiresAt.IsZero() {
		s.ExpiresAt = expiresAt.UnixMilli()
	}
	return s
}
