package usecase

import (
	"context"
	"net/http"
	"sync"

	"rentx-admin/internal/domain"
)

// fakeBackend is an in-memory RentX API that records every write.
type fakeBackend struct {
	mu sync.Mutex

	users      []domain.User
	properties []domain.Property
	facilities []domain.Facility
	categories []domain.Category
	slider     []domain.SliderEntry

	writes        []string
	createdCats   []domain.CategoryInput
	createdFacs   []domain.FacilityInput
	blockedWrites []bool
	listErr       error
	writeErr      error
}

func (f *fakeBackend) write(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, call)
	return f.writeErr
}

func (f *fakeBackend) SignIn(_ context.Context, req domain.LoginRequest) (*domain.User, []*http.Cookie, error) {
	if err := f.write("POST /auth/signin"); err != nil {
		return nil, nil, err
	}
	return &domain.User{ID: "u0", Name: "Admin"}, []*http.Cookie{{Name: "session", Value: "x"}}, nil
}

func (f *fakeBackend) SignOut(context.Context) error { return f.write("GET /auth/signout") }

func (f *fakeBackend) Register(context.Context, domain.RegisterRequest) error {
	return f.write("POST /users")
}

func (f *fakeBackend) ListUsers(context.Context) ([]domain.User, error) {
	return f.users, f.listErr
}

func (f *fakeBackend) SetUserBlocked(_ context.Context, id string, blocked bool) error {
	if err := f.write("PUT /users/" + id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockedWrites = append(f.blockedWrites, blocked)
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].IsBlocked = blocked
		}
	}
	return nil
}

func (f *fakeBackend) ListProperties(context.Context) ([]domain.Property, error) {
	return f.properties, f.listErr
}

func (f *fakeBackend) DeleteProperty(_ context.Context, id string) error {
	return f.write("DELETE /properties/" + id)
}

func (f *fakeBackend) ListFacilities(context.Context) ([]domain.Facility, error) {
	return f.facilities, f.listErr
}

func (f *fakeBackend) CreateFacility(_ context.Context, in domain.FacilityInput) error {
	f.createdFacs = append(f.createdFacs, in)
	return f.write("POST /facilities/")
}

func (f *fakeBackend) UpdateFacility(_ context.Context, id string, _ domain.FacilityEdit) error {
	return f.write("PUT /facilities/" + id)
}

func (f *fakeBackend) DeleteFacility(_ context.Context, id string) error {
	return f.write("DELETE /facilities/" + id)
}

func (f *fakeBackend) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, f.listErr
}

func (f *fakeBackend) CreateCategory(_ context.Context, in domain.CategoryInput) error {
	f.createdCats = append(f.createdCats, in)
	return f.write("POST /categories/")
}

func (f *fakeBackend) UpdateCategory(_ context.Context, id string, _ domain.CategoryEdit) error {
	return f.write("PUT /categories/" + id)
}

func (f *fakeBackend) DeleteCategory(_ context.Context, id string) error {
	return f.write("DELETE /categories/" + id)
}

func (f *fakeBackend) ListSlider(context.Context) ([]domain.SliderEntry, error) {
	return f.slider, f.listErr
}

func (f *fakeBackend) CreateSlider(_ context.Context, propertyID string) error {
	return f.write("POST /slider/")
}

func (f *fakeBackend) SetSliderActive(_ context.Context, id string, _ bool) error {
	return f.write("PUT /slider/" + id)
}

func (f *fakeBackend) DeleteSlider(_ context.Context, id string) error {
	return f.write("DELETE /slider/" + id)
}

type fakeUploader struct {
	enabled bool
	url     string
	err     error
	calls   int
}

func (u *fakeUploader) Enabled() bool { return u.enabled }

func (u *fakeUploader) Upload(context.Context, string, []byte) (string, error) {
	u.calls++
	return u.url, u.err
}
