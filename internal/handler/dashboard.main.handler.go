package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/middleware"
	"rentx-admin/internal/session"
	"rentx-admin/internal/usecase"
	"rentx-admin/internal/view"
	"rentx-admin/internal/ws"
	"rentx-admin/pkg/client/backend"
	xerrors "rentx-admin/pkg/utils/errors"
)

// Banner texts
const (
	MsgGeneric         = "Something went wrong. Please try again."
	MsgLoginFailed     = "Login failed"
	MsgRegisterFailed  = "Registration failed"
	MsgRegistered      = "Registration successful. Please log in."
	MsgUploadFailed    = "Image upload failed. Nothing was created."
	MsgFileTooLarge    = "Image is larger than 10 MB. Nothing was created."
	MsgImageTooLarge   = "Image dimensions are too large. Nothing was created."
	MsgUploadDisabled  = "Image uploads are not configured. Submit without an image."
	MsgTooManyAttempts = "Too many login attempts. Try again in "
)

// EventPublisher announces session events to other open pages.
type EventPublisher interface {
	PublishLogout(ctx context.Context, userID string) error
}

type DashboardHandler struct {
	uc       *usecase.DashboardUsecase
	sessions *session.Manager
	gate     *middleware.Gate
	view     *view.Renderer
	ws       *ws.Server
	events   EventPublisher
	logger   *zap.Logger
}

func NewDashboardHandler(
	uc *usecase.DashboardUsecase,
	sessions *session.Manager,
	gate *middleware.Gate,
	renderer *view.Renderer,
	wsServer *ws.Server,
	events EventPublisher,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		uc:       uc,
		sessions: sessions,
		gate:     gate,
		view:     renderer,
		ws:       wsServer,
		events:   events,
		logger:   logger,
	}
}

// current returns the gated session and a context carrying its backend cookies.
func (h *DashboardHandler) current(r *http.Request) (*domain.Session, context.Context) {
	s, _ := session.FromContext(r.Context())
	return s, h.sessions.BackendContext(r.Context(), s)
}

// renderScreen renders a protected page. listErr, when set, turns the banner into
// the standard notice, kept behind any pending flash message.
func (h *DashboardHandler) renderScreen(w http.ResponseWriter, r *http.Request, s *domain.Session, page, title string, data interface{}, listErr error) {
	flash := h.sessions.PopFlash(r.Context(), s)
	if listErr != nil {
		msg := MsgGeneric
		if flash != nil && flash.Message != "" && flash.Message != MsgGeneric {
			msg = flash.Message + " " + MsgGeneric
		}
		flash = &domain.Flash{Level: domain.FlashError, Message: msg}
	}
	h.view.Render(w, http.StatusOK, page, &view.Page{
		Title: title,
		Path:  r.URL.Path,
		User:  s.User,
		Flash: flash,
		Data:  data,
	})
}

// listFailed logs a failed list load. It reports true when the failure was the
// backend rejecting the session, in which case the visitor was sent to /login.
func (h *DashboardHandler) listFailed(w http.ResponseWriter, r *http.Request, s *domain.Session, screen string, err error) bool {
	h.logger.Error("failed to load screen",
		zap.String("screen", screen),
		zap.String("session_id", s.ID),
		zap.Error(err))
	if errors.Is(err, xerrors.ErrUnauthorized) {
		h.expire(w, r, s)
		return true
	}
	return false
}

// finishWrite ends a write with post/redirect/get back to screen. Failures become
// the banner of the next render.
func (h *DashboardHandler) finishWrite(w http.ResponseWriter, r *http.Request, s *domain.Session, screen string, err error) {
	if err == nil {
		http.Redirect(w, r, screen, http.StatusSeeOther)
		return
	}

	h.logger.Error("write failed",
		zap.String("path", r.URL.Path),
		zap.String("session_id", s.ID),
		zap.Error(err))

	if errors.Is(err, xerrors.ErrUnauthorized) {
		h.expire(w, r, s)
		return
	}

	msg := backend.MessageOf(err)
	switch {
	case errors.Is(err, xerrors.ErrFileTooLarge):
		msg = MsgFileTooLarge
	case errors.Is(err, xerrors.ErrImageTooLarge):
		msg = MsgImageTooLarge
	case errors.Is(err, xerrors.ErrUploadNotEnabled):
		msg = MsgUploadDisabled
	case errors.Is(err, xerrors.ErrUploadFailed):
		msg = MsgUploadFailed
	case msg == "":
		msg = MsgGeneric
	}
	h.sessions.SetFlash(r.Context(), s, domain.FlashError, msg)
	http.Redirect(w, r, screen, http.StatusSeeOther)
}

// expire ends a session the backend stopped accepting.
func (h *DashboardHandler) expire(w http.ResponseWriter, r *http.Request, s *domain.Session) {
	h.sessions.Destroy(r.Context(), w, r, s)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
