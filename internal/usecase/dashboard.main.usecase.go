package usecase

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/repository"
	"rentx-admin/pkg/client/backend"
	"rentx-admin/pkg/utils/id"
)

// Backend is the slice of the RentX REST API the dashboard uses.
type Backend interface {
	SignIn(ctx context.Context, req domain.LoginRequest) (*domain.User, []*http.Cookie, error)
	SignOut(ctx context.Context) error
	Register(ctx context.Context, req domain.RegisterRequest) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	SetUserBlocked(ctx context.Context, id string, blocked bool) error

	ListProperties(ctx context.Context) ([]domain.Property, error)
	DeleteProperty(ctx context.Context, id string) error

	ListFacilities(ctx context.Context) ([]domain.Facility, error)
	CreateFacility(ctx context.Context, in domain.FacilityInput) error
	UpdateFacility(ctx context.Context, id string, edit domain.FacilityEdit) error
	DeleteFacility(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) error
	UpdateCategory(ctx context.Context, id string, edit domain.CategoryEdit) error
	DeleteCategory(ctx context.Context, id string) error

	ListSlider(ctx context.Context) ([]domain.SliderEntry, error)
	CreateSlider(ctx context.Context, propertyID string) error
	SetSliderActive(ctx context.Context, id string, active bool) error
	DeleteSlider(ctx context.Context, id string) error
}

// Uploader hosts icon images and returns their public URL.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// Upload is an image file submitted with a create form.
type Upload struct {
	Filename string
	Data     []byte
}

const recentActivityLimit = 10

type DashboardUsecase struct {
	backend  Backend
	uploader Uploader
	audit    repository.AuditRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewDashboardUsecase(b Backend, uploader Uploader, audit repository.AuditRepository, logger *zap.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		backend:  b,
		uploader: uploader,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// record writes one audit event. Audit failures never fail the admin's action.
func (uc *DashboardUsecase) record(ctx context.Context, actor, action, resource, resourceID string, opErr error) {
	e := &domain.AuditEvent{
		ID:         id.GenerateULID("evt"),
		Actor:      actor,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Status:     domain.StatusSuccess,
		CreatedAt:  uc.now().UTC(),
	}
	if opErr != nil {
		e.Status = domain.StatusFailed
		e.Message = backend.MessageOf(opErr)
		if e.Message == "" {
			e.Message = opErr.Error()
		}
	}
	if err := uc.audit.Insert(context.WithoutCancel(ctx), e); err != nil {
		uc.logger.Warn("failed to record audit event",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}
