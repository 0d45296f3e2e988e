package auth

import (
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName holds the access token for browser clients.
const DefaultCookieName = "cadastro_session"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string `env:"NAME" envDefault:"cadastro_session"`
	Domain string `env:"DOMAIN"`
	Secure bool   `env:"SECURE" envDefault:"true"`
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// SetSessionCookie writes the access token as an HttpOnly cookie that
// expires with the session.
func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, s *Session) {
	c := &http.Cookie{
		Name:     cfg.name(),
		Value:    s.AccessToken,
		Path:     "/",
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
		if c.MaxAge <= 0 {
			c.MaxAge = -1
		}
	}
	http.SetCookie(w, c)
}

func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request, cfg CookieConfig) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cfg.name()); err == nil {
		return c.Value
	}
	return ""
}
