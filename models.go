package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LockThreshold is the number of consecutive failed attempts after which an
// account is locked.
var LockThreshold = 5

// Credential is the stored credential record backing authentication. The
// failure counter and last-login stamp are the only fields this package
// mutates; profile data is owned by the surrounding user service.
type Credential struct {
	bun.BaseModel  `bun:"table:credentials,alias:cred"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         string     `bun:"user_id,notnull,unique" json:"user_id,omitempty"`
	DisplayName    string     `bun:"display_name" json:"display_name,omitempty"`
	RoleCode       RoleCode   `bun:"role_code,notnull" json:"role_code,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FailedAttempts int        `bun:"failed_attempts" json:"failed_attempts,omitempty"`
	LastLoginAt    *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Locked reports whether the account has reached the lockout threshold.
func (c *Credential) Locked() bool {
	return c.FailedAttempts >= LockThreshold
}

// Principal builds the request-scoped identity for this record.
func (c *Credential) Principal() Principal {
	return NewPrincipal(c.UserID, c.DisplayName, c.RoleCode)
}

// EnsureRole backfills the default role for records created before role codes
// were mandatory.
func (c *Credential) EnsureRole() {
	if c.RoleCode == "" {
		c.RoleCode = RoleUser
	}
}
