package session

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes holds the endpoint paths.
type AuthControllerRoutes struct {
	SignIn  string
	SignOut string
	Session string
	Refresh string
}

// AuthController exposes the session lifecycle over HTTP: sign-in, sign-out,
// session check, and token refresh. All responses are JSON.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Verifier     Verifier
	Tokens       *TokenService
	Store        CredentialStore
	Cookies      *SessionCookies
	Sink         ActivitySink
	ContextKey   string
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

func WithVerifier(v Verifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Verifier = v
		return c
	}
}

func WithTokenService(ts *TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = ts
		return c
	}
}

func WithCredentialStore(store CredentialStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Store = store
		return c
	}
}

func WithCookies(cookies *SessionCookies) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Cookies = cookies
		return c
	}
}

func WithSink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sink = normalizeActivitySink(sink)
		return c
	}
}

func WithContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ContextKey = key
		return c
	}
}

func WithRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		Sink:         noopActivitySink{},
		ContextKey:   DefaultContextKey,
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			SignIn:  "/auth/sign-in",
			SignOut: "/auth/sign-out",
			Session: "/auth/session",
			Refresh: "/auth/refresh",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Verifier == nil {
		panic("Missing Verifier in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	if c.Cookies == nil {
		panic("Missing SessionCookies in auth controller...")
	}

	if c.Store == nil {
		panic("Missing CredentialStore in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the session endpoints on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.SignIn, controller.SignIn).
		SetName("auth.sign-in")

	app.
		Post(controller.Routes.SignOut, controller.SignOut).
		SetName("auth.sign-out")

	app.
		Get(controller.Routes.Session, controller.Session).
		SetName("auth.session")

	app.
		Post(controller.Routes.Refresh, controller.Refresh).
		SetName("auth.refresh")

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	UserID   string `form:"userId" json:"userId"`
	Password string `form:"password" json:"password"`
}

// GetUserID returns the user identifier
func (r LoginRequest) GetUserID() string {
	return r.UserID
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserID,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

var _ LoginPayload = LoginRequest{}

// RefreshRequest carries the refresh token for clients that cannot use the
// HTTP-only cookie.
type RefreshRequest struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

// SignIn verifies credentials, mints both tokens, and installs the session
// cookies. Every authentication failure gets the same generic response;
// the concrete cause is logged, never surfaced.
func (a *AuthController) SignIn(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign-in parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("sign-in validate payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"validation": err,
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGN IN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{"userId": payload.UserID}))
		fmt.Println("===========================")
	}

	principal, err := a.Verifier.Authenticate(ctx.Context(), payload.GetUserID(), payload.GetPassword())
	if err != nil {
		a.Logger.Warn("sign-in rejected", "user_id", payload.UserID, "error", err)
		return a.unauthorized(ctx)
	}

	access, err := a.Tokens.IssueAccessToken(*principal)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	refresh, err := a.Tokens.IssueRefreshToken(principal.UserID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Cookies.Issue(ctx, principal, access, refresh); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, NewSessionSnapshot(*principal, access.ExpiresAt))
}

// SignOut clears the session cookies. Idempotent: signing out without a
// session is still a success.
func (a *AuthController) SignOut(ctx router.Context) error {
	if principal, ok := GetRouterPrincipal(ctx, a.ContextKey); ok {
		a.record(ctx, ActivityEventSignOut, principal.UserID, principal.DisplayName)
	}

	a.Cookies.Clear(ctx)

	return ctx.JSON(router.StatusOK, map[string]bool{
		"success": true,
	})
}

// Session reports the current authenticated principal, or 401 when the
// request carries none.
func (a *AuthController) Session(ctx router.Context) error {
	principal, ok := GetRouterPrincipal(ctx, a.ContextKey)
	if !ok {
		if p, found := PrincipalFromContext(ctx.Context()); found {
			principal, ok = p, true
		}
	}

	if !ok || principal == nil || principal.IsZero() {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "authentication required",
		})
	}

	snapshot := SessionSnapshot{Principal: *principal}
	if claims, found := GetRouterClaims(ctx, a.ContextKey); found {
		snapshot = NewSessionSnapshot(*principal, claims.Expires())
	}

	return ctx.JSON(router.StatusOK, snapshot)
}

// Refresh exchanges a valid refresh token for a new access token. The
// credential record is reloaded so lockouts and role changes that postdate
// the refresh token take effect immediately.
func (a *AuthController) Refresh(ctx router.Context) error {
	raw := ctx.Cookies(CookieRefreshToken, "")
	if raw == "" {
		payload := new(RefreshRequest)
		if err := ctx.Bind(payload); err == nil {
			raw = payload.RefreshToken
		}
	}

	if raw == "" {
		a.Logger.Warn("refresh rejected", "error", "no refresh token presented")
		return a.unauthorized(ctx)
	}

	claims, err := a.Tokens.ValidateRefresh(raw)
	if err != nil {
		a.Logger.Warn("refresh rejected", "error", err)
		return a.unauthorized(ctx)
	}

	record, err := a.Store.GetByUserID(ctx.Context(), claims.UserID())
	if err != nil {
		a.Logger.Warn("refresh rejected", "user_id", claims.UserID(), "error", err)
		return a.unauthorized(ctx)
	}

	if record.Locked() {
		a.Logger.Warn("refresh rejected", "user_id", record.UserID, "error", "account locked")
		return a.unauthorized(ctx)
	}

	principal := record.Principal()

	access, err := a.Tokens.IssueAccessToken(principal)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	// the refresh token itself is not rotated, it rides until expiry
	refresh := Token{Value: raw, ExpiresAt: claims.Expires()}

	if err := a.Cookies.Issue(ctx, &principal, access, refresh); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	a.record(ctx, ActivityEventRefresh, record.UserID, record.DisplayName)

	if a.Debug {
		fmt.Println("======= AUTH REFRESH ======")
		fmt.Println(print.MaybePrettyJSON(NewSessionSnapshot(principal, access.ExpiresAt)))
		fmt.Println("===========================")
	}

	return ctx.JSON(router.StatusOK, NewSessionSnapshot(principal, access.ExpiresAt))
}

func (a *AuthController) unauthorized(ctx router.Context) error {
	return ctx.JSON(router.StatusUnauthorized, map[string]string{
		"error": "invalid credentials",
	})
}

func (a *AuthController) record(ctx router.Context, event ActivityEventType, userID, displayName string) {
	if a.Sink == nil {
		return
	}
	if err := a.Sink.Record(ctx.Context(), ActivityEvent{
		EventType: event,
		Actor:     ActorRef{UserID: userID, DisplayName: displayName},
	}); err != nil {
		a.Logger.Warn("activity sink rejected event", "event", string(event), "error", err)
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.JSON(fiber.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
