package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/usecase"
	xerrors "rentx-admin/pkg/utils/errors"
)

const (
	maxUploadBytes  = 10 << 20
	maxRequestBytes = 32 << 20
)

type facilitiesData struct {
	Facilities []domain.Facility
	Editing    string
}

type categoriesData struct {
	Categories []domain.Category
	Facilities []domain.Facility
	Editing    string
}

// iconUpload reads the optional iconImage file of a multipart form. Files over
// maxUploadBytes are refused, never truncated.
func iconUpload(w http.ResponseWriter, r *http.Request) (*usecase.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("%w: %w", xerrors.ErrUploadFailed, xerrors.ErrFileTooLarge)
		}
		return nil, fmt.Errorf("parse form: %w", err)
	}
	file, hdr, err := r.FormFile("iconImage")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}
	defer file.Close()

	if hdr.Size > maxUploadBytes {
		return nil, fmt.Errorf("%w: %w: %s is %d bytes", xerrors.ErrUploadFailed, xerrors.ErrFileTooLarge, hdr.Filename, hdr.Size)
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("%w: %w", xerrors.ErrUploadFailed, xerrors.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &usecase.Upload{Filename: hdr.Filename, Data: data}, nil
}

func (h *DashboardHandler) Facilities(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	facilities, err := h.uc.Facilities(ctx)
	if err != nil && h.listFailed(w, r, s, "facilities", err) {
		return
	}
	data := facilitiesData{Facilities: facilities, Editing: r.URL.Query().Get("edit")}
	h.renderScreen(w, r, s, "facilities", "Facilities", data, err)
}

func (h *DashboardHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	icon, err := iconUpload(w, r)
	if err != nil {
		h.finishWrite(w, r, s, "/facilities", err)
		return
	}
	err = h.uc.CreateFacility(ctx, s.User.Email,
		r.FormValue("name"),
		domain.ParseFacilityType(r.FormValue("type")),
		icon)
	h.finishWrite(w, r, s, "/facilities", err)
}

func (h *DashboardHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.UpdateFacility(ctx, s.User.Email, chi.URLParam(r, "id"), domain.FacilityEdit{
		Name: r.PostFormValue("name"),
		Type: domain.ParseFacilityType(r.PostFormValue("type")),
	})
	h.finishWrite(w, r, s, "/facilities", err)
}

func (h *DashboardHandler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.DeleteFacility(ctx, s.User.Email, chi.URLParam(r, "id"))
	h.finishWrite(w, r, s, "/facilities", err)
}

func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	categories, facilities, err := h.uc.Categories(ctx)
	if err != nil && h.listFailed(w, r, s, "categories", err) {
		return
	}
	data := categoriesData{Categories: categories, Facilities: facilities, Editing: r.URL.Query().Get("edit")}
	h.renderScreen(w, r, s, "categories", "Categories", data, err)
}

func (h *DashboardHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	icon, err := iconUpload(w, r)
	if err != nil {
		h.finishWrite(w, r, s, "/categories", err)
		return
	}
	err = h.uc.CreateCategory(ctx, s.User.Email, r.FormValue("name"), r.Form["facilities"], icon)
	h.finishWrite(w, r, s, "/categories", err)
}

func (h *DashboardHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	if err := r.ParseForm(); err != nil {
		h.finishWrite(w, r, s, "/categories", err)
		return
	}
	err := h.uc.UpdateCategory(ctx, s.User.Email, chi.URLParam(r, "id"), r.PostFormValue("name"), r.PostForm["facilities"])
	h.finishWrite(w, r, s, "/categories", err)
}

func (h *DashboardHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.current(r)
	err := h.uc.DeleteCategory(ctx, s.User.Email, chi.URLParam(r, "id"))
	h.finishWrite(w, r, s, "/categories", err)
}
