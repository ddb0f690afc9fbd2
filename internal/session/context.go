package session

import (
	"context"

	"rentx-admin/internal/domain"
)

type contextKey string

const contextSession contextKey = "session"

func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, contextSession, s)
}

// FromContext returns the session the gate placed on the request.
func FromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(contextSession).(*domain.Session)
	return s, ok && s != nil
}
