package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	controller *session.AuthController
	store      *fakeCredentialStore
	tokens     *session.TokenService
	sink       *CapturingSink
}

func newControllerFixture(t *testing.T, records ...*session.Credential) *controllerFixture {
	t.Helper()

	cfg := testSettings()
	store := newFakeCredentialStore(records...)
	sink := &CapturingSink{}

	tokens, err := session.NewTokenService(cfg, nopLogger{})
	require.NoError(t, err)

	controller := session.NewAuthController(
		session.WithVerifier(session.NewCredentialVerifier(store).WithLogger(nopLogger{})),
		session.WithTokenService(tokens),
		session.WithCredentialStore(store),
		session.WithCookies(session.NewSessionCookies(cfg)),
		session.WithSink(sink),
		session.WithControllerLogger(nopLogger{}),
	)

	return &controllerFixture{
		controller: controller,
		store:      store,
		tokens:     tokens,
		sink:       sink,
	}
}

func bindLogin(ctx *router.MockContext, userID, password string) {
	ctx.On("Bind", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*session.LoginRequest)
		payload.UserID = userID
		payload.Password = password
	})
}

func captureJSON(ctx *router.MockContext, status int) *any {
	var body any
	ctx.On("JSON", status, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		body = args.Get(1)
	})
	return &body
}

func TestAuthController_SignIn(t *testing.T) {
	t.Run("valid credentials install the session", func(t *testing.T) {
		fx := newControllerFixture(t, testCredential("user-1", "correct horse"))

		ctx := router.NewMockContext()
		jar := collectCookies(ctx)
		bindLogin(ctx, "user-1", "correct horse")
		ctx.On("Context").Return(context.Background())
		body := captureJSON(ctx, router.StatusOK)

		require.NoError(t, fx.controller.SignIn(ctx))

		require.Len(t, jar, 4)
		assert.NotEmpty(t, jar[session.CookieAccessToken].Value)
		assert.NotEmpty(t, jar[session.CookieRefreshToken].Value)
		assert.True(t, jar[session.CookieRefreshToken].HTTPOnly)

		snapshot, ok := (*body).(session.SessionSnapshot)
		require.True(t, ok, "expected a session snapshot, got %T", *body)
		assert.Equal(t, "user-1", snapshot.UserID)
		assert.NotZero(t, snapshot.ExpiresAt)

		claims, err := fx.tokens.Validate(jar[session.CookieAccessToken].Value)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
	})

	t.Run("failure causes share one generic response", func(t *testing.T) {
		locked := testCredential("locked-user", "correct horse")
		locked.FailedAttempts = session.LockThreshold

		fx := newControllerFixture(t,
			testCredential("user-1", "correct horse"),
			locked,
		)

		cases := map[string]struct {
			userID   string
			password string
		}{
			"wrong password":  {"user-1", "wrong"},
			"unknown account": {"ghost", "whatever"},
			"locked account":  {"locked-user", "correct horse"},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				ctx := router.NewMockContext()
				bindLogin(ctx, tc.userID, tc.password)
				ctx.On("Context").Return(context.Background())
				body := captureJSON(ctx, router.StatusUnauthorized)

				require.NoError(t, fx.controller.SignIn(ctx))

				got, ok := (*body).(map[string]string)
				require.True(t, ok)
				assert.Equal(t, map[string]string{"error": "invalid credentials"}, got)
			})
		}
	})

	t.Run("missing fields are a validation failure", func(t *testing.T) {
		fx := newControllerFixture(t)

		ctx := router.NewMockContext()
		bindLogin(ctx, "", "")
		ctx.On("JSON", fiber.StatusBadRequest, mock.Anything).Return(nil)

		require.NoError(t, fx.controller.SignIn(ctx))
		ctx.AssertExpectations(t)
	})
}

func TestAuthController_SignOut(t *testing.T) {
	fx := newControllerFixture(t)

	t.Run("clears every session cookie", func(t *testing.T) {
		principal := session.NewPrincipal("user-1", "Test", session.RoleUser)

		ctx := router.NewMockContext()
		ctx.LocalsMock[session.DefaultContextKey] = &principal
		ctx.On("Context").Return(context.Background())
		jar := collectCookies(ctx)
		body := captureJSON(ctx, router.StatusOK)

		require.NoError(t, fx.controller.SignOut(ctx))

		require.Len(t, jar, 4)
		for name, c := range jar {
			assert.Empty(t, c.Value, "cookie %s should be cleared", name)
			assert.True(t, c.Expires.Before(time.Now()))
		}

		got, ok := (*body).(map[string]bool)
		require.True(t, ok)
		assert.True(t, got["success"])
		assert.Contains(t, fx.sink.Types(), session.ActivityEventSignOut)
	})

	t.Run("signing out without a session still succeeds", func(t *testing.T) {
		ctx := router.NewMockContext()
		jar := collectCookies(ctx)
		ctx.On("JSON", router.StatusOK, mock.Anything).Return(nil)

		require.NoError(t, fx.controller.SignOut(ctx))
		require.Len(t, jar, 4)
	})
}

func TestAuthController_Session(t *testing.T) {
	fx := newControllerFixture(t, testCredential("user-1", "correct horse"))

	t.Run("authenticated request gets its snapshot", func(t *testing.T) {
		principal := session.NewPrincipal("user-1", "Test User", session.RoleUser)
		access, err := fx.tokens.IssueAccessToken(principal)
		require.NoError(t, err)
		claims, err := fx.tokens.Validate(access.Value)
		require.NoError(t, err)

		ctx := router.NewMockContext()
		ctx.LocalsMock[session.DefaultContextKey] = &principal
		ctx.LocalsMock[session.DefaultContextKey+":claims"] = claims
		body := captureJSON(ctx, router.StatusOK)

		require.NoError(t, fx.controller.Session(ctx))

		snapshot, ok := (*body).(session.SessionSnapshot)
		require.True(t, ok)
		assert.Equal(t, "user-1", snapshot.UserID)
		assert.Equal(t, claims.Expires().UnixMilli(), snapshot.ExpiresAt)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("Context").Return(context.Background())
		body := captureJSON(ctx, router.StatusUnauthorized)

		require.NoError(t, fx.controller.Session(ctx))

		got, ok := (*body).(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "authentication required", got["error"])
	})
}

func TestAuthController_Refresh(t *testing.T) {
	t.Run("valid refresh token mints a fresh access token", func(t *testing.T) {
		fx := newControllerFixture(t, testCredential("user-1", "correct horse"))

		refresh, err := fx.tokens.IssueRefreshToken("user-1")
		require.NoError(t, err)

		ctx := router.NewMockContext()
		ctx.CookiesM[session.CookieRefreshToken] = refresh.Value
		ctx.On("Cookies", session.CookieRefreshToken, "").Return(refresh.Value).Maybe()
		ctx.On("Context").Return(context.Background())
		jar := collectCookies(ctx)
		body := captureJSON(ctx, router.StatusOK)

		require.NoError(t, fx.controller.Refresh(ctx))

		require.Len(t, jar, 4)
		claims, err := fx.tokens.Validate(jar[session.CookieAccessToken].Value)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, session.TokenKindAccess, claims.TokenKind())

		// refresh token is not rotated
		assert.Equal(t, refresh.Value, jar[session.CookieRefreshToken].Value)

		snapshot, ok := (*body).(session.SessionSnapshot)
		require.True(t, ok)
		assert.Equal(t, "user-1", snapshot.UserID)
		assert.Contains(t, fx.sink.Types(), session.ActivityEventRefresh)
	})

	t.Run("access token is rejected for refresh", func(t *testing.T) {
		fx := newControllerFixture(t, testCredential("user-1", "correct horse"))

		access, err := fx.tokens.IssueAccessToken(session.NewPrincipal("user-1", "", session.RoleUser))
		require.NoError(t, err)

		ctx := router.NewMockContext()
		ctx.CookiesM[session.CookieRefreshToken] = access.Value
		ctx.On("Cookies", session.CookieRefreshToken, "").Return(access.Value).Maybe()
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		require.NoError(t, fx.controller.Refresh(ctx))
		ctx.AssertExpectations(t)
	})

	t.Run("lockout after issuance blocks refresh", func(t *testing.T) {
		record := testCredential("user-1", "correct horse")
		fx := newControllerFixture(t, record)

		refresh, err := fx.tokens.IssueRefreshToken("user-1")
		require.NoError(t, err)

		// account gets locked while the refresh token is still valid
		for i := 0; i < session.LockThreshold; i++ {
			require.NoError(t, fx.store.RecordFailure(context.Background(), "user-1"))
		}

		ctx := router.NewMockContext()
		ctx.CookiesM[session.CookieRefreshToken] = refresh.Value
		ctx.On("Cookies", session.CookieRefreshToken, "").Return(refresh.Value).Maybe()
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		require.NoError(t, fx.controller.Refresh(ctx))
		ctx.AssertExpectations(t)
	})

	t.Run("missing refresh token is rejected", func(t *testing.T) {
		fx := newControllerFixture(t)

		ctx := router.NewMockContext()
		ctx.On("Cookies", session.CookieRefreshToken, "").Return("").Maybe()
		ctx.On("Bind", mock.Anything).Return(nil)
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Return(nil)

		require.NoError(t, fx.controller.Refresh(ctx))
		ctx.AssertExpectations(t)
	})
}
