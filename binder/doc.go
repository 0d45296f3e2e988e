// Package binder fills request structs from path parameters, url-encoded
// forms, JSON bodies and Datastar signals.
//
// Each constructor returns a func(*http.Request, any) error for
// handler.WithBinders. A binder that does not match the request's content
// type returns ErrNotApplicable and is skipped:
//
//	handler.Wrap(h, handler.WithBinders[SubmitRequest](
//		binder.Path(chi.URLParam),
//		binder.Form(),
//		binder.JSON(),
//		binder.Signals(),
//	))
package binder
