package session

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced alongside structured errors so clients and logs can
// branch on a stable identifier instead of the message.
const (
	TextCodeCredentialNotFound = "CREDENTIAL_NOT_FOUND"
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeAccountLocked      = "ACCOUNT_LOCKED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeWrongTokenKind     = "WRONG_TOKEN_KIND"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSigningKeyTooShort = "SIGNING_KEY_TOO_SHORT"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrCredentialNotFound is returned when no credential record exists for the
// requested user ID. It deliberately carries the same client-facing weight as
// ErrInvalidCredentials; the distinction lives in logs only.
var ErrCredentialNotFound = goerrors.New("credential record not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeCredentialNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is returned when the supplied password does not match
// the stored hash.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountLocked is returned once the consecutive failure counter reaches
// LockThreshold. A locked account rejects even the correct password.
var ErrAccountLocked = goerrors.New("account is locked after too many failed attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeAccountLocked).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens whose expiry is at or before now.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers signature mismatches, truncated tokens, and any
// other parse failure that is not a plain expiry.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrWrongTokenKind is returned when a refresh token is presented where an
// access token is required, or vice versa.
var ErrWrongTokenKind = goerrors.New("token kind not valid for this operation", goerrors.CategoryAuth).
	WithTextCode(TextCodeWrongTokenKind).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToFindSession is returned when the request context carries no
// authenticated principal.
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrSigningKeyTooShort is a construction-time failure: the configured secret
// is below the minimum length for the signing algorithm. The service must not
// start, and must never substitute a generated key.
var ErrSigningKeyTooShort = goerrors.New("signing secret is shorter than the algorithm minimum", goerrors.CategoryValidation).
	WithTextCode(TextCodeSigningKeyTooShort).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens, including errors from
// third-party JWT layers that only expose a message.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed-token errors by message so callers
// can treat legacy and structured failures uniformly.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsLockoutError reports whether authentication failed because the account is
// locked rather than because the password was wrong.
func IsLockoutError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrAccountLocked)
}
