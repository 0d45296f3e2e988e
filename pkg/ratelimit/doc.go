// Package ratelimit implements fixed-window request limiting over a pluggable
// Store: MemoryStore for a single instance, RedisStore to share counters.
//
//	limiter, _ := ratelimit.New(ratelimit.NewMemoryStore(), "login", ratelimit.Config{Limit: 5, Window: time.Minute})
//	r.With(ratelimit.Middleware(limiter, ratelimit.ByIP)).Post("/auth/login", login)
package ratelimit
