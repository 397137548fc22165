package session

import (
	"context"
	"time"
)

// Logger is the leveled logging contract used across the package.
type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

// LoggerProvider hands out named loggers so each component can log under its
// own scope.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// Config holds session options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetCookieSecure() bool
	GetCookieSameSite() string
	GetCookieDomain() string
	GetPublicPaths() []string
}

// CredentialStore is the persistence contract the verifier and the HTTP layer
// depend on. Lockout mutations must be atomic per account: the store's
// row-level update is the serialization point, no in-process lock is added.
type CredentialStore interface {
	GetByUserID(ctx context.Context, userID string) (*Credential, error)
	RecordFailure(ctx context.Context, userID string) error
	RecordSuccess(ctx context.Context, userID string) error
}

// Verifier authenticates user credentials and produces a Principal.
type Verifier interface {
	Authenticate(ctx context.Context, userID, password string) (*Principal, error)
}

// TokenIssuer mints signed bearer credentials.
type TokenIssuer interface {
	IssueAccessToken(p Principal) (Token, error)
	IssueRefreshToken(userID string) (Token, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// LoginPayload is the shape of a sign-in request body.
type LoginPayload interface {
	GetUserID() string
	GetPassword() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}
