package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rentx-admin/internal/domain"
)

// rentxBackend is an in-memory RentX API. It accepts the cookie session=valid and
// records every write it receives.
type rentxBackend struct {
	mu sync.Mutex

	users      []domain.User
	properties []domain.Property
	facilities []domain.Facility
	categories []domain.Category
	slider     []domain.SliderEntry

	rejectSessions  bool
	loginMessage    string
	failRegister    bool
	registerMessage string
	writeMessage    string
	failLists       bool
	writes          []string
	bodies         map[string]string
}

func newRentxBackend(t *testing.T) (*rentxBackend, *httptest.Server) {
	t.Helper()
	b := &rentxBackend{
		users: []domain.User{
			{ID: "u1", Name: "Ada", Email: "ada@example.com"},
			{ID: "u2", Name: "Grace", Email: "grace@example.com", IsBlocked: true},
			{ID: "u3", Name: "Linus", Email: "linus@example.com"},
		},
		properties: []domain.Property{
			{ID: "p1", Title: "Sunset Villa", City: "Austin", Category: domain.CategoryRef{ID: "c1", Name: "Villa"}},
			{ID: "p2", Title: "Oak House", City: "Dallas", Category: domain.CategoryRef{ID: "c2", Name: "House"}},
		},
		facilities: []domain.Facility{
			{ID: "f1", Name: "Pool", Type: domain.FacilityTypeNumber},
			{ID: "f2", Name: "Gym", Type: domain.FacilityTypeRadio},
		},
		categories: []domain.Category{
			{ID: "c1", Name: "Villa", Facilities: domain.FacilityRefs{"f1"}},
		},
		bodies: map[string]string{},
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *rentxBackend) writeCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.writes...)
}

func (b *rentxBackend) authorized(r *http.Request) bool {
	c, err := r.Cookie("session")
	return err == nil && c.Value == "valid" && !b.rejectSessions
}

func (b *rentxBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	call := r.Method + " " + r.URL.Path
	if r.Method != http.MethodGet {
		b.writes = append(b.writes, call)
		b.bodies[call] = string(raw)
	}

	switch {
	case call == "POST /auth/signin":
		var req domain.LoginRequest
		_ = json.Unmarshal(raw, &req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			if b.loginMessage != "" {
				_ = json.NewEncoder(w).Encode(map[string]string{"message": b.loginMessage})
			}
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "valid", Path: "/", HttpOnly: true})
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"_id": "admin1", "name": "Admin", "email": req.Email})
		return
	case call == "POST /users":
		if b.failRegister {
			w.WriteHeader(http.StatusBadRequest)
			if b.registerMessage != "" {
				_ = json.NewEncoder(w).Encode(map[string]string{"message": b.registerMessage})
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
		return
	}

	if !b.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not authenticated"})
		return
	}

	if b.failLists && r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if b.writeMessage != "" && r.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": b.writeMessage})
		return
	}

	switch {
	case call == "GET /auth/currentuser":
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"_id": "admin1", "name": "Admin", "email": "admin@rentx.io"})
	case call == "GET /auth/signout":
		b.writes = append(b.writes, call)
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", MaxAge: -1})
	case call == "GET /users/":
		_ = json.NewEncoder(w).Encode(b.users)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/users/"):
		var upd domain.BlockUpdate
		_ = json.Unmarshal(raw, &upd)
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		for i := range b.users {
			if b.users[i].ID == id {
				b.users[i].IsBlocked = upd.IsBlocked
			}
		}
	case call == "GET /properties/":
		_ = json.NewEncoder(w).Encode(b.properties)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/properties/"):
		id := strings.TrimPrefix(r.URL.Path, "/properties/")
		kept := b.properties[:0]
		for _, p := range b.properties {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		b.properties = kept
	case call == "GET /facilities/":
		_ = json.NewEncoder(w).Encode(b.facilities)
	case call == "GET /categories/":
		_ = json.NewEncoder(w).Encode(b.categories)
	case call == "POST /categories/":
		var in domain.CategoryInput
		_ = json.Unmarshal(raw, &in)
		b.categories = append(b.categories, domain.Category{ID: "c-new", Name: in.Name, Facilities: in.Facilities})
		w.WriteHeader(http.StatusCreated)
	case call == "GET /slider/":
		_ = json.NewEncoder(w).Encode(b.slider)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
