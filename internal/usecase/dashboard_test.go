package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/repository"
	xerrors "rentx-admin/pkg/utils/errors"
)

func newUsecase(b *fakeBackend, u Uploader) (*DashboardUsecase, *repository.LogAuditRepository) {
	audit := repository.NewLogAuditRepository(50, zap.NewNop())
	return NewDashboardUsecase(b, u, audit, zap.NewNop()), audit
}

func TestToggleCustomerTwiceRestoresOriginal(t *testing.T) {
	b := &fakeBackend{users: []domain.User{{ID: "u1", Name: "Ada", IsBlocked: false}}}
	uc, _ := newUsecase(b, nil)
	ctx := context.Background()

	require.NoError(t, uc.ToggleCustomer(ctx, "admin@rentx.io", "u1", b.users[0].IsBlocked))
	require.NoError(t, uc.ToggleCustomer(ctx, "admin@rentx.io", "u1", b.users[0].IsBlocked))

	assert.False(t, b.users[0].IsBlocked)
	assert.Equal(t, []string{"PUT /users/u1", "PUT /users/u1"}, b.writes)
	assert.Equal(t, []bool{true, false}, b.blockedWrites)
}

func TestCreateCategoryWithoutIconOrFacilities(t *testing.T) {
	b := &fakeBackend{}
	up := &fakeUploader{enabled: true}
	uc, _ := newUsecase(b, up)

	require.NoError(t, uc.CreateCategory(context.Background(), "admin", "Lakeside", nil, nil))
	require.Len(t, b.createdCats, 1)
	payload, err := json.Marshal(b.createdCats[0])
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Lakeside","iconImage":"","facilities":[]}`, string(payload))
	assert.Zero(t, up.calls)
}

func TestCreateFacilityUploadsIconFirst(t *testing.T) {
	b := &fakeBackend{}
	up := &fakeUploader{enabled: true, url: "https://img/pool.png"}
	uc, _ := newUsecase(b, up)

	err := uc.CreateFacility(context.Background(), "admin", " Pool ", domain.FacilityTypeRadio,
		&Upload{Filename: "pool.png", Data: []byte("png")})
	require.NoError(t, err)
	require.Len(t, b.createdFacs, 1)
	assert.Equal(t, domain.FacilityInput{Name: "Pool", Type: domain.FacilityTypeRadio, IconImage: "https://img/pool.png"}, b.createdFacs[0])
}

func TestUploadFailureAbortsCreate(t *testing.T) {
	b := &fakeBackend{}
	up := &fakeUploader{enabled: true, err: xerrors.ErrUploadFailed}
	uc, audit := newUsecase(b, up)

	err := uc.CreateCategory(context.Background(), "admin", "Lakeside", []string{"f1"},
		&Upload{Filename: "icon.png", Data: []byte("png")})
	assert.ErrorIs(t, err, xerrors.ErrUploadFailed)
	assert.Empty(t, b.writes)

	events, _ := audit.ListRecent(context.Background(), 1)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StatusFailed, events[0].Status)
}

func TestCreateWithIconButNoImageHost(t *testing.T) {
	b := &fakeBackend{}
	uc, _ := newUsecase(b, &fakeUploader{enabled: false})

	err := uc.CreateFacility(context.Background(), "admin", "Pool", domain.FacilityTypeNumber,
		&Upload{Filename: "pool.png", Data: []byte("png")})
	assert.ErrorIs(t, err, xerrors.ErrUploadNotEnabled)
	assert.Empty(t, b.writes)
}

func TestFilterProperties(t *testing.T) {
	props := []domain.Property{
		{ID: "p1", Title: "Sunset Villa", City: "Austin"},
		{ID: "p2", Title: "Oak House", City: "Dallas", Category: domain.CategoryRef{Name: "Cabin"}},
	}

	got := FilterProperties(props, "austin")
	require.Len(t, got, 1)
	assert.Equal(t, "Sunset Villa", got[0].Title)

	got = FilterProperties(props, "CABIN")
	require.Len(t, got, 1)
	assert.Equal(t, "Oak House", got[0].Title)

	assert.Len(t, FilterProperties(props, ""), 2)
	assert.Len(t, FilterProperties(props, "   "), 2)
	assert.Empty(t, FilterProperties(props, "houston"))
}

func TestSliderFiltersPickerAgainstFullList(t *testing.T) {
	b := &fakeBackend{
		properties: []domain.Property{
			{ID: "p1", Title: "Sunset Villa", City: "Austin"},
			{ID: "p2", Title: "Oak House", City: "Dallas"},
		},
		slider: []domain.SliderEntry{{ID: "s1", Property: domain.Property{ID: "p2", Title: "Oak House"}, IsActive: true}},
	}
	uc, _ := newUsecase(b, nil)

	view, err := uc.Slider(context.Background(), "austin")
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1)
	require.Len(t, view.Properties, 1)
	assert.Equal(t, "p1", view.Properties[0].ID)

	view, err = uc.Slider(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, view.Properties, 2)
}

func TestSummaryCountsAndActivity(t *testing.T) {
	b := &fakeBackend{
		users:      []domain.User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}},
		properties: []domain.Property{{ID: "p1"}},
	}
	uc, _ := newUsecase(b, nil)
	ctx := context.Background()
	require.NoError(t, uc.DeleteProperty(ctx, "admin", "p9"))

	s, err := uc.Summary(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.AdminName)
	assert.Equal(t, 1, s.TotalProperties)
	assert.Equal(t, 3, s.TotalCustomers)
	require.Len(t, s.RecentActivity, 1)
	assert.Equal(t, domain.ActionDelete, s.RecentActivity[0].Action)
	assert.Equal(t, "p9", s.RecentActivity[0].ResourceID)
}

func TestListFailureIsReturned(t *testing.T) {
	boom := errors.New("boom")
	b := &fakeBackend{listErr: boom}
	uc, _ := newUsecase(b, nil)

	_, _, err := uc.Categories(context.Background())
	assert.ErrorIs(t, err, boom)

	view, err := uc.Slider(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, view.Entries)
	assert.Empty(t, view.Properties)
}

func TestLoginRecordsAudit(t *testing.T) {
	b := &fakeBackend{}
	uc, audit := newUsecase(b, nil)

	user, cookies, err := uc.Login(context.Background(), domain.LoginRequest{Email: " ada@rentx.io ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ada@rentx.io", user.Email)
	assert.Len(t, cookies, 1)

	events, _ := audit.ListRecent(context.Background(), 1)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionLogin, events[0].Action)
	assert.Equal(t, "ada@rentx.io", events[0].Actor)
	assert.Equal(t, domain.StatusSuccess, events[0].Status)
}
