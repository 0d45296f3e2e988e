package auth

import (
	"context"
	"log/slog"

	"github.com/saludigital/cadastro/pkg/logger"
)

type sessionContextKey struct{}

// WithSession stores the resolved session for handlers down the chain.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}

// UserIDExtractor is a logger.ContextExtractor adding the signed-in user.
func UserIDExtractor(ctx context.Context) (slog.Attr, bool) {
	s := SessionFromContext(ctx)
	if s == nil || s.User.ID == "" {
		return slog.Attr{}, false
	}
	return logger.UserID(s.User.ID), true
}
