package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MinSigningKeyBytes is the minimum secret length accepted for HS256. A
// shorter secret fails construction; the service never falls back to a
// generated per-process key, since that would silently invalidate every
// outstanding token across restarts.
const MinSigningKeyBytes = 32

// Token is a signed, self-contained bearer credential. Immutable once issued;
// validity is determined purely by signature and expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenService issues and validates access and refresh tokens with a single
// symmetric signing key. The key is read-only after construction.
type TokenService struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     Logger
	timeFunc   func() time.Time
}

var (
	_ TokenIssuer    = (*TokenService)(nil)
	_ TokenValidator = (*TokenService)(nil)
)

// NewTokenService creates a new TokenService instance. It fails when the
// configured secret is below MinSigningKeyBytes or the TTLs are inconsistent
// (both must be positive, refresh strictly longer than access).
func NewTokenService(cfg Config, logger Logger) (*TokenService, error) {
	if logger == nil {
		_, logger = ResolveLogger("session.tokens", nil, nil)
	}

	key := []byte(cfg.GetSigningKey())
	if len(key) < MinSigningKeyBytes {
		return nil, ErrSigningKeyTooShort
	}

	accessTTL := cfg.GetAccessTokenTTL()
	refreshTTL := cfg.GetRefreshTokenTTL()
	if accessTTL <= 0 {
		return nil, goerrors.New("access token TTL must be positive", goerrors.CategoryValidation)
	}
	if refreshTTL <= accessTTL {
		return nil, goerrors.New("refresh token TTL must exceed access token TTL", goerrors.CategoryValidation)
	}

	return &TokenService{
		signingKey: key,
		issuer:     cfg.GetIssuer(),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}, nil
}

// WithClock overrides the time source, for issuance and validation alike.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	ts.timeFunc = now
	return ts
}

// AccessTokenTTL exposes the configured access token lifetime.
func (ts *TokenService) AccessTokenTTL() time.Duration {
	return ts.accessTTL
}

// RefreshTokenTTL exposes the configured refresh token lifetime.
func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.refreshTTL
}

// IssueAccessToken mints a short-lived token carrying the principal snapshot.
func (ts *TokenService) IssueAccessToken(p Principal) (Token, error) {
	now := ts.now()
	expires := now.Add(ts.accessTTL)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID:       p.UserID,
		Name:      p.DisplayName,
		Role:      p.RoleCode,
		Authority: p.Authorities,
		Kind:      TokenKindAccess,
	}

	ensureTokenID(&claims.RegisteredClaims)

	value, err := ts.SignClaims(claims)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: value, ExpiresAt: expires}, nil
}

// IssueRefreshToken mints a long-lived token carrying only the subject and
// the refresh kind marker.
func (ts *TokenService) IssueRefreshToken(userID string) (Token, error) {
	now := ts.now()
	expires := now.Add(ts.refreshTTL)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Kind: TokenKindRefresh,
	}

	ensureTokenID(&claims.RegisteredClaims)

	value, err := ts.SignClaims(claims)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: value, ExpiresAt: expires}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token string, verifying signature before anything else,
// then expiry. A token whose expiry equals now is already expired. All
// failures come back typed; nothing panics past this boundary.
func (ts *TokenService) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if ts.timeFunc != nil {
		parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.timeFunc))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validation encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token validation could not decode claims")
	return nil, ErrTokenMalformed
}

// ValidateForUser reports whether the token is valid and belongs to the
// expected user.
func (ts *TokenService) ValidateForUser(tokenString, expectedUserID string) bool {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject() == expectedUserID
}

// ValidateRefresh validates a token and requires the refresh kind marker.
func (ts *TokenService) ValidateRefresh(tokenString string) (AuthClaims, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenKind() != TokenKindRefresh {
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}

func (ts *TokenService) now() time.Time {
	if ts.timeFunc != nil {
		return ts.timeFunc()
	}
	return time.Now()
}

// ensureTokenID fills in a unique jti when the caller did not set one.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil || claims.ID != "" {
		return
	}
	claims.ID = uuid.NewString()
}
