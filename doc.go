// Package session implements credential and token lifecycle management for a
// single authentication domain: password verification with account lockout,
// signed access/refresh token issuance and validation, cookie transport, and
// HTTP endpoints for sign-in, sign-out, session inspection, and refresh.
//
// Credential verification:
//   - CredentialVerifier checks a plaintext password against the stored bcrypt
//     hash and keeps the per-account failure counter honest: every call mutates
//     lockout state exactly once (increment on mismatch, reset on success),
//     except lookups for accounts that do not exist, which touch nothing.
//   - Accounts with LockThreshold or more consecutive failures are locked and
//     reject even correct passwords until the counter is reset.
//
// Tokens:
//   - TokenService signs short-lived access tokens carrying the principal
//     snapshot and long-lived refresh tokens carrying only the subject. The
//     signing key is validated at construction; a secret below the HS256
//     minimum is a hard error, never silently replaced.
//
// Request authentication:
//   - middleware/tokenware extracts bearer tokens, validates them, and attaches
//     a Principal to the request context. Failures never abort the request;
//     enforcement belongs to the downstream guard (RequireAuthenticated).
//
// State is threaded explicitly: the Principal travels in the request context
// via WithPrincipal/PrincipalFromContext, never in shared mutable globals.
package session
