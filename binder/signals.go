package binder

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// IsDataStar reports whether r was issued by the Datastar client.
func IsDataStar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// Signals decodes the Datastar signal store into v with `json` tags.
// Unknown signals are ignored since the client sends its whole store.
func Signals() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if !IsDataStar(r) {
			return ErrNotApplicable
		}
		if err := datastar.ReadSignals(r, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignals, err)
		}
		return nil
	}
}
