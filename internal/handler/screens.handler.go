package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentx-admin/internal/domain"
)

type customersData struct {
	Users []domain.User
}

type propertiesData struct {
	Properties []domain.Property
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	summary, err := h.uc.Summary(ctx, s.User.Name)
	if err != nil && h.listFailed(w, r, s, "dashboard", err) {
		return
	}
	if summary == nil {
		summary = &domain.Summary{AdminName: s.User.Name}
	}
	h.renderScreen(w, r, s, "dashboard", "Dashboard", summary, err)
}

func (h *DashboardHandler) Customers(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	users, err := h.uc.Customers(ctx)
	if err != nil && h.listFailed(w, r, s, "customers", err) {
		return
	}
	h.renderScreen(w, r, s, "customers", "Customers", customersData{Users: users}, err)
}

func (h *DashboardHandler) ToggleCustomer(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	current := r.PostFormValue("current") == "true"
	err := h.uc.ToggleCustomer(ctx, s.User.Email, chi.URLParam(r, "id"), current)
	h.finishWrite(w, r, s, "/customers", err)
}

func (h *DashboardHandler) Properties(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	props, err := h.uc.Properties(ctx)
	if err != nil && h.listFailed(w, r, s, "property", err) {
		return
	}
	h.renderScreen(w, r, s, "property", "Property", propertiesData{Properties: props}, err)
}

func (h *DashboardHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.DeleteProperty(ctx, s.User.Email, chi.URLParam(r, "id"))
	h.finishWrite(w, r, s, "/property", err)
}
