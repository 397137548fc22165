package session

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Default transport knobs. Overridable per Settings instance.
const (
	DefaultContextKey    = "session"
	DefaultTokenLookup   = "header:Authorization,cookie:accessToken"
	DefaultAuthScheme    = "Bearer"
	DefaultIssuer        = "go-session"
	DefaultAccessTTL     = 30 * time.Minute
	DefaultRefreshTTL    = 14 * 24 * time.Hour
	DefaultSigningMethod = "HS256"
)

// DefaultPublicPaths are skipped by the request authentication middleware.
var DefaultPublicPaths = []string{
	"/auth/sign-in",
	"/auth/refresh",
	"/health",
	"/favicon.ico",
}

// Settings is the concrete Config implementation. Zero values are filled in
// by Validate, except the signing key which has no safe default.
type Settings struct {
	SigningKey     string        `json:"-"`
	SigningMethod  string        `json:"signing_method"`
	Issuer         string        `json:"issuer"`
	AccessTTL      time.Duration `json:"access_ttl"`
	RefreshTTL     time.Duration `json:"refresh_ttl"`
	ContextKey     string        `json:"context_key"`
	TokenLookup    string        `json:"token_lookup"`
	AuthScheme     string        `json:"auth_scheme"`
	CookieSecure   bool          `json:"cookie_secure"`
	CookieSameSite string        `json:"cookie_same_site"`
	CookieDomain   string        `json:"cookie_domain"`
	PublicPaths    []string      `json:"public_paths"`
	Debug          bool          `json:"debug"`
}

var _ Config = (*Settings)(nil)

// NewSettings returns Settings with defaults applied, ready for a signing key.
func NewSettings(signingKey string) *Settings {
	s := &Settings{SigningKey: signingKey}
	s.applyDefaults()
	return s
}

// LoadSettings reads Settings from the environment. A .env file in the
// working directory is honored when present.
func LoadSettings() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		SigningKey:     os.Getenv("SESSION_SIGNING_KEY"),
		SigningMethod:  getEnv("SESSION_SIGNING_METHOD", DefaultSigningMethod),
		Issuer:         getEnv("SESSION_ISSUER", DefaultIssuer),
		AccessTTL:      getEnvAsDuration("SESSION_ACCESS_TTL", DefaultAccessTTL),
		RefreshTTL:     getEnvAsDuration("SESSION_REFRESH_TTL", DefaultRefreshTTL),
		ContextKey:     getEnv("SESSION_CONTEXT_KEY", DefaultContextKey),
		TokenLookup:    getEnv("SESSION_TOKEN_LOOKUP", DefaultTokenLookup),
		AuthScheme:     getEnv("SESSION_AUTH_SCHEME", DefaultAuthScheme),
		CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", false),
		CookieSameSite: getEnv("SESSION_COOKIE_SAME_SITE", "Lax"),
		CookieDomain:   os.Getenv("SESSION_COOKIE_DOMAIN"),
		Debug:          getEnvAsBool("SESSION_DEBUG", false),
	}

	if paths := os.Getenv("SESSION_PUBLIC_PATHS"); paths != "" {
		for _, p := range strings.Split(paths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				s.PublicPaths = append(s.PublicPaths, p)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.SigningMethod == "" {
		s.SigningMethod = DefaultSigningMethod
	}
	if s.Issuer == "" {
		s.Issuer = DefaultIssuer
	}
	if s.AccessTTL == 0 {
		s.AccessTTL = DefaultAccessTTL
	}
	if s.RefreshTTL == 0 {
		s.RefreshTTL = DefaultRefreshTTL
	}
	if s.ContextKey == "" {
		s.ContextKey = DefaultContextKey
	}
	if s.TokenLookup == "" {
		s.TokenLookup = DefaultTokenLookup
	}
	if s.AuthScheme == "" {
		s.AuthScheme = DefaultAuthScheme
	}
	if s.CookieSameSite == "" {
		s.CookieSameSite = "Lax"
	}
	if len(s.PublicPaths) == 0 {
		s.PublicPaths = append([]string{}, DefaultPublicPaths...)
	}
}

// Validate applies defaults and rejects configurations that cannot produce
// safe tokens. A missing or short signing key is a hard error, never a
// generated fallback.
func (s *Settings) Validate() error {
	s.applyDefaults()

	if err := validation.ValidateStruct(s,
		validation.Field(&s.SigningKey, validation.Required),
		validation.Field(&s.Issuer, validation.Required),
		validation.Field(&s.SigningMethod, validation.In(DefaultSigningMethod)),
	); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid session settings")
	}

	if len(s.SigningKey) < MinSigningKeyBytes {
		return ErrSigningKeyTooShort
	}

	if s.AccessTTL <= 0 {
		return errors.New("access token TTL must be positive", errors.CategoryValidation).
			WithTextCode("INVALID_TTL")
	}

	if s.RefreshTTL <= s.AccessTTL {
		return errors.New("refresh token TTL must exceed access token TTL", errors.CategoryValidation).
			WithTextCode("INVALID_TTL")
	}

	return nil
}

func (s *Settings) GetSigningKey() string    { return s.SigningKey }
func (s *Settings) GetSigningMethod() string { return s.SigningMethod }
func (s *Settings) GetIssuer() string        { return s.Issuer }

func (s *Settings) GetAccessTokenTTL() time.Duration  { return s.AccessTTL }
func (s *Settings) GetRefreshTokenTTL() time.Duration { return s.RefreshTTL }

func (s *Settings) GetContextKey() string     { return s.ContextKey }
func (s *Settings) GetTokenLookup() string    { return s.TokenLookup }
func (s *Settings) GetAuthScheme() string     { return s.AuthScheme }
func (s *Settings) GetCookieSecure() bool     { return s.CookieSecure }
func (s *Settings) GetCookieSameSite() string { return s.CookieSameSite }
func (s *Settings) GetCookieDomain() string   { return s.CookieDomain }
func (s *Settings) GetPublicPaths() []string  { return s.PublicPaths }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
