package i18n

import (
	"net/http"
)

const (
	QueryParam = "lang"
	CookieName = "lang"
)

// Middleware resolves the request language from the lang query parameter,
// then the lang cookie, then Accept-Language, and stores it in the context.
// The resolved tag is echoed in the Content-Language header.
func Middleware(t *Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := []string{r.URL.Query().Get(QueryParam)}
			if c, err := r.Cookie(CookieName); err == nil {
				prefs = append(prefs, c.Value)
			}
			prefs = append(prefs, r.Header.Get("Accept-Language"))

			tag := t.Match(prefs...)
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), tag)))
		})
	}
}
