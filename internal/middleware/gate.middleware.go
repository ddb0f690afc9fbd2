package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/session"
	"rentx-admin/pkg/response"
)

// Verifier confirms backend credentials; the backend client satisfies it.
type Verifier interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// Gate decides, for every protected request, whether the visitor is authenticated.
// A request is authenticated only when its session exists and the backend accepted
// the session's credentials within the verification window.
type Gate struct {
	sessions *session.Manager
	verifier Verifier
	logger   *zap.Logger
}

func NewGate(sessions *session.Manager, verifier Verifier, logger *zap.Logger) *Gate {
	return &Gate{sessions: sessions, verifier: verifier, logger: logger}
}

// Authenticate resolves and, when due, re-verifies the request's session. Any
// failure, including a network error, means "not authenticated".
func (g *Gate) Authenticate(ctx context.Context, r *http.Request) (*domain.Session, bool) {
	s, err := g.sessions.Load(ctx, r)
	if err != nil {
		if !session.IsGone(err) {
			g.logger.Warn("session lookup failed", zap.Error(err))
		}
		return nil, false
	}

	if !g.sessions.NeedsVerification(s) {
		return s, true
	}

	user, err := g.verifier.CurrentUser(g.sessions.BackendContext(ctx, s))
	if err != nil {
		g.logger.Info("backend rejected session",
			zap.String("session_id", s.ID),
			zap.String("email", s.User.Email),
			zap.Error(err))
		g.sessions.Invalidate(ctx, s)
		return nil, false
	}

	if err := g.sessions.MarkVerified(ctx, s, user); err != nil {
		g.logger.Warn("failed to record verification", zap.String("session_id", s.ID), zap.Error(err))
	}
	return s, true
}

// RequireSession renders next for authenticated visitors and sends everyone else to
// /login with their cookies cleared. JSON callers get a 401 instead of a redirect.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s, ok := g.Authenticate(ctx, r)
		if !ok {
			g.sessions.Destroy(ctx, w, r, nil)
			if response.WantsJSON(r) {
				response.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, s)))
	})
}
