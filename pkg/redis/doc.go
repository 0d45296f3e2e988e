// Package redis connects to Redis with retries and exposes a readiness check.
// The rate limiter uses the client as its shared counter store.
package redis
