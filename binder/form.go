package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// Form binds application/x-www-form-urlencoded bodies (and, for GET, the
// query string) into `form:"name"` fields. A `form:"*"` field of type
// url.Values or map[string]string receives every submitted value.
//
//	type SubmitRequest struct {
//		Form   string     `path:"form"`
//		Values url.Values `form:"*"`
//	}
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/x-www-form-urlencoded" {
				return ErrNotApplicable
			}
		}

		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}

		values := r.PostForm
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			values = r.URL.Query()
		}
		return bindToStruct(v, "form", values, ErrInvalidForm)
	}
}
