package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *DashboardHandler) Slider(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	v, err := h.uc.Slider(ctx, r.URL.Query().Get("q"))
	if err != nil && h.listFailed(w, r, s, "slider", err) {
		return
	}
	h.renderScreen(w, r, s, "slider", "Slider", v, err)
}

func (h *DashboardHandler) AddSlider(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.AddSlider(ctx, s.User.Email, r.PostFormValue("property"))
	h.finishWrite(w, r, s, "/slider", err)
}

func (h *DashboardHandler) ToggleSlider(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	current := r.PostFormValue("current") == "true"
	err := h.uc.ToggleSlider(ctx, s.User.Email, chi.URLParam(r, "id"), current)
	h.finishWrite(w, r, s, "/slider", err)
}

func (h *DashboardHandler) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.DeleteSlider(ctx, s.User.Email, chi.URLParam(r, "id"))
	h.finishWrite(w, r, s, "/slider", err)
}
