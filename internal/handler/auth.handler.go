package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/session"
	"rentx-admin/internal/view"
	"rentx-admin/pkg/client/backend"
	"rentx-admin/pkg/response"
	xerrors "rentx-admin/pkg/utils/errors"
)

type loginForm struct {
	Email string
}

type registerForm struct {
	Name         string
	Email        string
	MobileNumber string
}

func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"service": "rentx-admin", "state": "ok"})
}

// Root sends authenticated admins to the dashboard and everyone else to /login.
func (h *DashboardHandler) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate.Authenticate(r.Context(), r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *DashboardHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate.Authenticate(r.Context(), r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	var flash *domain.Flash
	if r.URL.Query().Get("registered") != "" {
		flash = &domain.Flash{Level: domain.FlashSuccess, Message: MsgRegistered}
	}
	h.renderLogin(w, http.StatusOK, loginForm{}, flash)
}

func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginForm{}, errorFlash(MsgLoginFailed))
		return
	}
	req := domain.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	user, cookies, err := h.uc.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		h.renderLogin(w, http.StatusOK, loginForm{Email: req.Email}, errorFlash(failureMessage(err, MsgLoginFailed)))
		return
	}

	su := domain.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email}
	if su.Name == "" {
		su.Name = su.Email
	}
	if _, err := h.sessions.Create(r.Context(), w, r, su, cookies); err != nil {
		h.logger.Error("failed to create session", zap.String("email", req.Email), zap.Error(err))
		h.renderLogin(w, http.StatusOK, loginForm{Email: req.Email}, errorFlash(MsgGeneric))
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// LoginThrottled answers a login attempt rejected by the rate limiter.
func (h *DashboardHandler) LoginThrottled(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	if response.WantsJSON(r) {
		response.Error(w, http.StatusTooManyRequests, MsgTooManyAttempts+retryAfter.String())
		return
	}
	h.renderLogin(w, http.StatusTooManyRequests, loginForm{Email: r.PostFormValue("email")},
		errorFlash(MsgTooManyAttempts+retryAfter.Round(time.Second).String()))
}

func (h *DashboardHandler) renderLogin(w http.ResponseWriter, status int, form loginForm, flash *domain.Flash) {
	h.view.Render(w, status, "login", &view.Page{Title: "Login", Path: "/login", Flash: flash, Data: form})
}

func (h *DashboardHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "register", &view.Page{Title: "Register", Path: "/register", Data: registerForm{}})
}

func (h *DashboardHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, http.StatusBadRequest, registerForm{}, errorFlash(MsgRegisterFailed))
		return
	}
	req := domain.RegisterRequest{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		MobileNumber: strings.TrimSpace(r.PostFormValue("mobileNumber")),
		Password:     r.PostFormValue("password"),
	}
	form := registerForm{Name: req.Name, Email: req.Email, MobileNumber: req.MobileNumber}

	if err := h.uc.Register(r.Context(), req); err != nil {
		h.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		h.renderRegister(w, http.StatusOK, form, errorFlash(failureMessage(err, MsgRegisterFailed)))
		return
	}
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (h *DashboardHandler) renderRegister(w http.ResponseWriter, status int, form registerForm, flash *domain.Flash) {
	h.view.Render(w, status, "register", &view.Page{Title: "Register", Path: "/register", Flash: flash, Data: form})
}

// SignOut ends the backend session, then the local one. A failing backend call is
// logged and does not keep the admin signed in.
func (h *DashboardHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	if err := h.uc.Logout(ctx, s.User.Email); err != nil {
		h.logger.Warn("backend sign-out failed", zap.String("session_id", s.ID), zap.Error(err))
	}
	h.sessions.Destroy(r.Context(), w, r, s)
	if err := h.events.PublishLogout(r.Context(), s.User.Key()); err != nil {
		h.logger.Warn("failed to announce sign-out", zap.String("session_id", s.ID), zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type sessionStatus struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.SessionUser `json:"user,omitempty"`
}

// SessionStatus reports whether the caller holds a verified session.
func (h *DashboardHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.gate.Authenticate(r.Context(), r)
	if !ok {
		response.JSON(w, http.StatusOK, sessionStatus{Authenticated: false})
		return
	}
	user := s.User
	response.JSON(w, http.StatusOK, sessionStatus{Authenticated: true, User: &user})
}

// SessionSocket upgrades to the socket that carries sign-out events.
func (h *DashboardHandler) SessionSocket(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	h.ws.ServeWS(w, r, s.User.Key())
}

func errorFlash(msg string) *domain.Flash {
	return &domain.Flash{Level: domain.FlashError, Message: msg}
}

// failureMessage prefers the backend's own message. Transport problems get the
// generic text and backend answers without a message get fallback.
func failureMessage(err error, fallback string) string {
	if msg := backend.MessageOf(err); msg != "" {
		return msg
	}
	if errors.Is(err, xerrors.ErrBackendUnavailable) {
		return MsgGeneric
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return fallback
	}
	return MsgGeneric
}
