package account

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saludigital/cadastro/binder"
	"github.com/saludigital/cadastro/handler"
	"github.com/saludigital/cadastro/pkg/i18n"
	"github.com/saludigital/cadastro/pkg/logger"
	"github.com/saludigital/cadastro/pkg/metrics"
	"github.com/saludigital/cadastro/svc/auth"
)

// Handler serves sign-in, sign-out, session lookup and password changes.
type Handler struct {
	provider     auth.Provider
	cookie       auth.CookieConfig
	translator   *i18n.Translator
	errorHandler handler.ErrorHandler
	loginGuard   []func(http.Handler) http.Handler
	metrics      *metrics.Metrics
	log          *slog.Logger
}

type Option func(*Handler)

func WithCookieConfig(cfg auth.CookieConfig) Option {
	return func(h *Handler) { h.cookie = cfg }
}

func WithTranslator(t *i18n.Translator) Option {
	return func(h *Handler) {
		if t != nil {
			h.translator = t
		}
	}
}

func WithErrorHandler(eh handler.ErrorHandler) Option {
	return func(h *Handler) {
		if eh != nil {
			h.errorHandler = eh
		}
	}
}

// WithLoginMiddleware guards the login route, typically with a rate limiter.
func WithLoginMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.loginGuard = append(h.loginGuard, mw...) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHandler(provider auth.Provider, opts ...Option) *Handler {
	if provider == nil {
		panic("account: auth provider is required")
	}
	h := &Handler{
		provider:   provider,
		cookie:     auth.CookieConfig{Name: auth.DefaultCookieName, Secure: true},
		translator: i18n.New(),
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.errorHandler == nil {
		h.errorHandler = handler.NewErrorHandler(handler.ErrorHandlerConfig{
			Logger:     h.log,
			Translator: h.translator,
			Rules:      ErrorRules(),
		})
	}
	h.log = h.log.With(logger.Component("account"))
	return h
}

// ErrorRules maps auth errors to HTTP responses.
func ErrorRules() []handler.ErrorRule {
	return []handler.ErrorRule{
		{Err: auth.ErrInvalidCredentials, Status: http.StatusUnauthorized, Key: "auth.invalid_credentials"},
		{Err: auth.ErrUnauthorized, Status: http.StatusUnauthorized, Key: "auth.unauthorized"},
		{Err: auth.ErrSessionNotFound, Status: http.StatusUnauthorized, Key: "auth.unauthorized"},
		{Err: auth.ErrWeakPassword, Status: http.StatusUnprocessableEntity, Key: "auth.weak_password"},
		{Err: auth.ErrProviderUnavailable, Status: http.StatusServiceUnavailable, Key: "error.unavailable"},
	}
}

// Handle returns the routes, to be mounted under /auth.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.With(h.loginGuard...).Post("/login", handler.Wrap[loginRequest](h.login,
		handler.WithBinders[loginRequest](binder.Form(), binder.JSON(), binder.Signals()),
		handler.WithErrorHandler[loginRequest](h.errorHandler),
	))
	r.Post("/logout", handler.Wrap[struct{}](h.logout,
		handler.WithErrorHandler[struct{}](h.errorHandler),
	))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(h.provider,
			auth.WithCookieConfig(h.cookie),
			auth.WithUnauthorizedHandler(h.rejectSession),
		))
		r.Get("/session", handler.Wrap[struct{}](h.session,
			handler.WithErrorHandler[struct{}](h.errorHandler),
		))
		r.Post("/password", handler.Wrap[passwordRequest](h.updatePassword,
			handler.WithBinders[passwordRequest](binder.Form(), binder.JSON(), binder.Signals()),
			handler.WithErrorHandler[passwordRequest](h.errorHandler),
		))
	})

	return r
}

func (h *Handler) rejectSession(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler(handler.NewContext(w, r), err)
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type sessionResponse struct {
	User        auth.User `json:"user"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

func (h *Handler) login(ctx handler.Context, req loginRequest) handler.Response {
	email, err := auth.ValidateCredentials(req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin("invalid")
		return handler.Error(err)
	}

	s, err := h.provider.SignInWithPassword(ctx, email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.metrics.ObserveLogin("rejected")
		h.log.InfoContext(ctx, "login rejected", logger.Error(err))
		return handler.Error(err)
	case err != nil:
		h.metrics.ObserveLogin("error")
		h.log.ErrorContext(ctx, "login failed", logger.Error(err))
		return handler.Error(handler.NewHTTPError(http.StatusServiceUnavailable, "auth.login_failed"))
	}

	h.metrics.ObserveLogin("success")
	h.log.InfoContext(ctx, "user signed in", logger.UserID(s.User.ID))
	auth.SetSessionCookie(ctx.ResponseWriter(), h.cookie, s)

	if handler.IsDataStar(ctx.Request()) {
		return handler.Signals(map[string]any{"authenticated": true, "error": ""})
	}
	return handler.JSON(sessionResponse{User: s.User, AccessToken: s.AccessToken, ExpiresAt: s.ExpiresAt})
}

// logout always clears the cookie; an already invalid token is not an error.
func (h *Handler) logout(ctx handler.Context, _ struct{}) handler.Response {
	token := auth.TokenFromRequest(ctx.Request(), h.cookie)
	auth.ClearSessionCookie(ctx.ResponseWriter(), h.cookie)
	if token == "" {
		return handler.Empty()
	}

	err := h.provider.SignOut(ctx, token)
	if err != nil && !errors.Is(err, auth.ErrUnauthorized) && !errors.Is(err, auth.ErrSessionNotFound) {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (h *Handler) session(ctx handler.Context, _ struct{}) handler.Response {
	s := auth.SessionFromContext(ctx)
	if s == nil {
		return handler.Error(auth.ErrSessionNotFound)
	}
	return handler.JSON(sessionResponse{User: s.User, ExpiresAt: s.ExpiresAt})
}

type passwordRequest struct {
	Password string `form:"password" json:"password"`
}

type passwordResponse struct {
	User    auth.User `json:"user"`
	Message string    `json:"message"`
}

func (h *Handler) updatePassword(ctx handler.Context, req passwordRequest) handler.Response {
	s := auth.SessionFromContext(ctx)
	if s == nil {
		return handler.Error(auth.ErrSessionNotFound)
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return handler.Error(err)
	}

	u, err := h.provider.UpdatePassword(ctx, s.AccessToken, req.Password)
	if err != nil {
		return handler.Error(err)
	}

	h.log.InfoContext(ctx, "password updated", logger.UserID(u.ID))
	msg := h.translator.T(ctx.Language(), "auth.password_updated")
	if handler.IsDataStar(ctx.Request()) {
		return handler.Signals(map[string]any{"message": msg, "error": ""})
	}
	return handler.JSON(passwordResponse{User: *u, Message: msg})
}
