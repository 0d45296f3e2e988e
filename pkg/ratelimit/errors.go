package ratelimit

import "errors"

var (
	ErrLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidConfig = errors.New("invalid rate limit configuration")
	ErrStore         = errors.New("rate limit store failure")
)
