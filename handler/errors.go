package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and an i18n message key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Key: "error.bad_request"}
	ErrUnauthorized    = HTTPError{Code: http.StatusUnauthorized, Key: "error.unauthorized"}
	ErrNotFound        = HTTPError{Code: http.StatusNotFound, Key: "error.not_found"}
	ErrTooManyRequests = HTTPError{Code: http.StatusTooManyRequests, Key: "error.rate_limited"}
	ErrInternal        = HTTPError{Code: http.StatusInternalServerError, Key: "error.internal"}
	ErrUnavailable     = HTTPError{Code: http.StatusServiceUnavailable, Key: "error.unavailable"}
)

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error returns a Response that hands err to the ErrorHandler.
func Error(err error) Response {
	return errorResponse{err: err}
}
