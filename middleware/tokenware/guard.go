package tokenware

import (
	"github.com/goliatone/go-router"
)

// RequireAuthenticated rejects requests that reached the handler without an
// authenticated principal in locals. Pair it with New, which leaves failed
// requests anonymous instead of aborting them.
func RequireAuthenticated(contextKey string, errorHandler ...router.HandlerFunc) router.MiddlewareFunc {
	if contextKey == "" {
		contextKey = "session"
	}

	onError := defaultGuardError
	if len(errorHandler) > 0 && errorHandler[0] != nil {
		onError = errorHandler[0]
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if ctx.Locals(contextKey) == nil {
				return onError(ctx)
			}
			return hf(ctx)
		}
	}
}

func defaultGuardError(ctx router.Context) error {
	return ctx.JSON(router.StatusUnauthorized, map[string]string{
		"error": "authentication required",
	})
}
