package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path binds `path:"name"` fields with extractor, usually chi.URLParam:
//
//	binder.Path(chi.URLParam)
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor is nil", ErrInvalidPath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidPath)
		}

		values := make(map[string][]string)
		rt := rv.Elem().Type()
		for i := 0; i < rt.NumField(); i++ {
			name, skip := parseFieldTag(rt.Field(i), "path")
			if skip {
				continue
			}
			if value := extractor(r, name); value != "" {
				values[name] = []string{value}
			}
		}
		return bindToStruct(v, "path", values, ErrInvalidPath)
	}
}
