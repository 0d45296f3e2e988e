package auth

import (
	"errors"
	"net/http"
)

// UnauthorizedHandler renders the response for a rejected request.
type UnauthorizedHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareOptions struct {
	cookie       CookieConfig
	unauthorized UnauthorizedHandler
}

type MiddlewareOption func(*middlewareOptions)

func WithCookieConfig(cfg CookieConfig) MiddlewareOption {
	return func(o *middlewareOptions) { o.cookie = cfg }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) MiddlewareOption {
	return func(o *middlewareOptions) {
		if h != nil {
			o.unauthorized = h
		}
	}
}

// RequireSession resolves the request's token through p and stores the
// session in the request context. Requests without a valid session are
// rejected with 401, or 503 when the provider cannot be reached.
func RequireSession(p Provider, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := &middlewareOptions{
		cookie: CookieConfig{Name: DefaultCookieName},
		unauthorized: func(w http.ResponseWriter, _ *http.Request, err error) {
			if errors.Is(err, ErrProviderUnavailable) {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, o.cookie)
			if token == "" {
				o.unauthorized(w, r, ErrSessionNotFound)
				return
			}

			s, err := p.GetSession(r.Context(), token)
			if err != nil {
				o.unauthorized(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
