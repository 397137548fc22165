package session

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Cookie names written on sign-in and cleared on sign-out. The refresh token
// is the only HTTP-only cookie; the rest are deliberately readable by
// frontend code.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
	CookieTokenExpiry  = "tokenExpiry"
	CookieUserInfo     = "userInfo"
)

var sessionCookieNames = []string{
	CookieAccessToken,
	CookieRefreshToken,
	CookieTokenExpiry,
	CookieUserInfo,
}

// SessionCookies writes and clears the cookie quartet that carries a session
// to browser clients.
type SessionCookies struct {
	cfg Config
}

// NewSessionCookies builds the cookie writer for the given config.
func NewSessionCookies(cfg Config) *SessionCookies {
	return &SessionCookies{cfg: cfg}
}

// Issue writes all four session cookies for an authenticated principal.
// Every cookie uses path "/" so the whole application sees the session.
func (s *SessionCookies) Issue(ctx router.Context, principal *Principal, access, refresh Token) error {
	if principal == nil {
		return errors.New("cannot issue cookies without a principal", errors.CategoryInternal)
	}

	info, err := json.Marshal(principal)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to serialize principal for cookie")
	}

	accessMaxAge := int(time.Until(access.ExpiresAt).Seconds())
	refreshMaxAge := int(time.Until(refresh.ExpiresAt).Seconds())

	s.set(ctx, &router.Cookie{
		Name:   CookieAccessToken,
		Value:  access.Value,
		MaxAge: accessMaxAge,
	})

	s.set(ctx, &router.Cookie{
		Name:     CookieRefreshToken,
		Value:    refresh.Value,
		MaxAge:   refreshMaxAge,
		HTTPOnly: true,
	})

	s.set(ctx, &router.Cookie{
		Name:   CookieTokenExpiry,
		Value:  strconv.FormatInt(access.ExpiresAt.UnixMilli(), 10),
		MaxAge: accessMaxAge,
	})

	s.set(ctx, &router.Cookie{
		Name:   CookieUserInfo,
		Value:  url.QueryEscape(string(info)),
		MaxAge: accessMaxAge,
	})

	return nil
}

// Clear tombstones every session cookie. Safe to call on requests that carry
// no session; clearing twice is a no-op.
func (s *SessionCookies) Clear(ctx router.Context) {
	for _, name := range sessionCookieNames {
		s.set(ctx, &router.Cookie{
			Name:    name,
			Value:   "",
			MaxAge:  0,
			Expires: time.Now().Add(-time.Hour * (24 * 365)),
		})
	}
}

func (s *SessionCookies) set(ctx router.Context, cookie *router.Cookie) {
	cookie.Path = "/"
	cookie.Domain = s.domain()
	cookie.Secure = s.cfg.GetCookieSecure()
	cookie.SameSite = s.cfg.GetCookieSameSite()
	ctx.Cookie(cookie)
}

// domain returns the configured cookie domain, except for localhost where
// browsers reject an explicit domain attribute.
func (s *SessionCookies) domain() string {
	d := strings.TrimSpace(s.cfg.GetCookieDomain())
	if d == "" || strings.EqualFold(d, "localhost") {
		return ""
	}
	return d
}
