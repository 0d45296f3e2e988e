package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSessionNotFound     = errors.New("session not found")
	ErrWeakPassword        = errors.New("password does not meet policy")
	ErrProviderUnavailable = errors.New("auth provider unavailable")
	ErrUserExists          = errors.New("user already exists")
)
