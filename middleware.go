package session

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/goliatone/go-session/middleware/tokenware"
)

// NewRequestAuthenticator builds the tokenware middleware wired to this
// package's token service and credential store. Requests on public paths are
// passed through untouched; everything else gets token extraction,
// validation, and a fresh principal load. Failures leave the request
// anonymous; combine with RequireAuthenticated on protected routes.
func NewRequestAuthenticator(cfg Config, tokens *TokenService, store CredentialStore) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		PublicPaths: cfg.GetPublicPaths(),
		TokenValidator: tokenware.ValidatorFunc(func(tokenString string) (tokenware.AuthClaims, error) {
			claims, err := tokens.Validate(tokenString)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		PrincipalLoader: func(ctx context.Context, claims tokenware.AuthClaims) (any, error) {
			record, err := store.GetByUserID(ctx, claims.UserID())
			if err != nil {
				return nil, err
			}
			if record.Locked() {
				return nil, ErrAccountLocked
			}
			principal := record.Principal()
			return &principal, nil
		},
		ContextEnricher: func(c context.Context, claims tokenware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				c = WithClaimsContext(c, ac)
			}
			return c
		},
	})
}

// RequireAuthenticated rejects anonymous requests with a 401. Mount it after
// NewRequestAuthenticator on routes that demand a session.
func RequireAuthenticated(cfg Config) router.MiddlewareFunc {
	return tokenware.RequireAuthenticated(cfg.GetContextKey())
}
