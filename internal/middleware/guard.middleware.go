package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/session"
	"rentx-admin/pkg/utils/cache"
	xerrors "rentx-admin/pkg/utils/errors"
)

const guardNamespace = "dashboard_submit_guard"

// MsgActionInProgress is the banner shown when a duplicate submission is rejected.
const MsgActionInProgress = "That action is already in progress"

// Guard lets one submission per (session, method, path) run at a time. The path
// names the screen, the action and the target id.
type Guard struct {
	cache    *cache.Cache
	sessions *session.Manager
	ttl      time.Duration
	logger   *zap.Logger
}

func NewGuard(c *cache.Cache, sessions *session.Manager, ttl time.Duration, logger *zap.Logger) *Guard {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Guard{cache: c, sessions: sessions, ttl: ttl, logger: logger}
}

// Once wraps a write handler. A duplicate submission gets the in-progress banner and
// a redirect to screen. Must run behind Gate.RequireSession.
func (g *Guard) Once(screen string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s, ok := session.FromContext(ctx)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := s.ID + ":" + r.Method + ":" + r.URL.Path
			acquired, err := g.cache.SetNX(ctx, guardNamespace, key, "1", g.ttl)
			if err != nil {
				g.logger.Warn("submission guard unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				g.logger.Info("duplicate submission rejected",
					zap.String("session_id", s.ID),
					zap.String("path", r.URL.Path),
					zap.Error(xerrors.ErrActionInProgress))
				g.sessions.SetFlash(ctx, s, domain.FlashError, MsgActionInProgress)
				http.Redirect(w, r, screen, http.StatusSeeOther)
				return
			}
			defer func() {
				if err := g.cache.Delete(context.WithoutCancel(ctx), guardNamespace, key); err != nil {
					g.logger.Warn("failed to release submission guard", zap.String("path", r.URL.Path), zap.Error(err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
