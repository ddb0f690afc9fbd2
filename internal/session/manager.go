// Package session owns the server-side admin session: the record in the store, the
// signed sid cookie that addresses it and the client-readable marker cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/pkg/client/backend"
	xerrors "rentx-admin/pkg/utils/errors"
	"rentx-admin/pkg/utils/id"
)

type Manager struct {
	store     Store
	signer    *Signer
	ttl       time.Duration
	verifyTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewManager(store Store, signer *Signer, ttl, verifyTTL time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		store:     store,
		signer:    signer,
		ttl:       ttl,
		verifyTTL: verifyTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Create persists a new session holding the backend cookies and sets the sid and
// marker cookies on w.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, user domain.SessionUser, cookies []*http.Cookie) (*domain.Session, error) {
	now := m.now().UTC()
	s := &domain.Session{
		ID:         id.GenerateSessionID(),
		User:       user,
		Cookies:    domain.CookiesFromHTTP(cookies),
		CreatedAt:  now,
		VerifiedAt: now,
	}

	token, err := m.signer.Sign(s.ID, m.ttl)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	setSID(w, r, token)
	setMarker(w, r)

	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("email", user.Email),
		zap.Int("backend_cookies", len(s.Cookies)))
	return s, nil
}

// Load resolves the sid cookie to a stored session. It never contacts the backend.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*domain.Session, error) {
	token := readSID(r)
	if token == "" {
		return nil, xerrors.ErrNoSession
	}
	sid, err := m.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, sid)
}

// Destroy removes the session (when known) and expires both cookies.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request, s *domain.Session) {
	if s == nil {
		if loaded, err := m.Load(ctx, r); err == nil {
			s = loaded
		}
	}
	if s != nil {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			m.logger.Warn("failed to delete session", zap.String("session_id", s.ID), zap.Error(err))
		}
	}
	ClearCookies(w, r)
}

// NeedsVerification reports whether the backend must confirm the session again.
func (m *Manager) NeedsVerification(s *domain.Session) bool {
	return !s.VerifiedWithin(m.verifyTTL, m.now())
}

// MarkVerified records a successful backend verification.
func (m *Manager) MarkVerified(ctx context.Context, s *domain.Session, user *domain.User) error {
	s.VerifiedAt = m.now().UTC()
	if user != nil {
		if user.Name != "" {
			s.User.Name = user.Name
		}
		if user.Email != "" {
			s.User.Email = user.Email
		}
		if user.ID != "" {
			s.User.ID = user.ID
		}
	}
	return m.save(ctx, s)
}

// Invalidate drops a session the backend no longer accepts. The browser cookies
// are cleared by the next gated request.
func (m *Manager) Invalidate(ctx context.Context, s *domain.Session) {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		m.logger.Warn("failed to invalidate session", zap.String("session_id", s.ID), zap.Error(err))
		return
	}
	m.logger.Info("session invalidated", zap.String("session_id", s.ID), zap.String("email", s.User.Email))
}

func (m *Manager) SetFlash(ctx context.Context, s *domain.Session, level domain.FlashLevel, msg string) {
	s.Flash = &domain.Flash{Level: level, Message: msg}
	if err := m.save(ctx, s); err != nil {
		m.logger.Warn("failed to store flash", zap.String("session_id", s.ID), zap.Error(err))
	}
}

// PopFlash returns the pending flash, if any, and clears it.
func (m *Manager) PopFlash(ctx context.Context, s *domain.Session) *domain.Flash {
	f := s.Flash
	if f == nil {
		return nil
	}
	s.Flash = nil
	if err := m.save(ctx, s); err != nil {
		m.logger.Warn("failed to clear flash", zap.String("session_id", s.ID), zap.Error(err))
	}
	return f
}

// BackendContext returns ctx carrying the session's backend cookies.
func (m *Manager) BackendContext(ctx context.Context, s *domain.Session) context.Context {
	return backend.WithCookies(ctx, domain.HTTPCookies(s.Cookies, m.now()))
}

// save re-stores s for the remainder of its lifetime.
func (m *Manager) save(ctx context.Context, s *domain.Session) error {
	remaining := s.CreatedAt.Add(m.ttl).Sub(m.now())
	if remaining <= 0 {
		return xerrors.ErrSessionNotFound
	}
	return m.store.Save(ctx, s, remaining)
}

// IsGone reports whether err means the visitor simply has no usable session.
func IsGone(err error) bool {
	return errors.Is(err, xerrors.ErrNoSession) ||
		errors.Is(err, xerrors.ErrSessionNotFound) ||
		errors.Is(err, xerrors.ErrInvalidToken) ||
		errors.Is(err, xerrors.ErrExpiredToken)
}
