package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"rentx-admin/internal/domain"
	xerrors "rentx-admin/pkg/utils/errors"
)

// uploadIcon returns "" when no file was submitted. Any upload problem aborts the
// surrounding create.
func (uc *DashboardUsecase) uploadIcon(ctx context.Context, icon *Upload) (string, error) {
	if icon == nil || len(icon.Data) == 0 {
		return "", nil
	}
	if uc.uploader == nil || !uc.uploader.Enabled() {
		return "", xerrors.ErrUploadNotEnabled
	}
	url, err := uc.uploader.Upload(ctx, icon.Filename, icon.Data)
	if err != nil {
		return "", fmt.Errorf("upload icon %q: %w", icon.Filename, err)
	}
	return url, nil
}

func (uc *DashboardUsecase) Facilities(ctx context.Context) ([]domain.Facility, error) {
	return uc.backend.ListFacilities(ctx)
}

func (uc *DashboardUsecase) CreateFacility(ctx context.Context, actor, name string, typ domain.FacilityType, icon *Upload) error {
	iconURL, err := uc.uploadIcon(ctx, icon)
	if err != nil {
		uc.record(ctx, actor, domain.ActionCreate, domain.ResourceFacility, "", err)
		return err
	}
	err = uc.backend.CreateFacility(ctx, domain.FacilityInput{
		Name:      strings.TrimSpace(name),
		Type:      typ,
		IconImage: iconURL,
	})
	uc.record(ctx, actor, domain.ActionCreate, domain.ResourceFacility, "", err)
	return err
}

func (uc *DashboardUsecase) UpdateFacility(ctx context.Context, actor, id string, edit domain.FacilityEdit) error {
	edit.Name = strings.TrimSpace(edit.Name)
	err := uc.backend.UpdateFacility(ctx, id, edit)
	uc.record(ctx, actor, domain.ActionUpdate, domain.ResourceFacility, id, err)
	return err
}

func (uc *DashboardUsecase) DeleteFacility(ctx context.Context, actor, id string) error {
	err := uc.backend.DeleteFacility(ctx, id)
	uc.record(ctx, actor, domain.ActionDelete, domain.ResourceFacility, id, err)
	return err
}

// Categories loads categories together with the facility catalog the checkbox
// list is built from.
func (uc *DashboardUsecase) Categories(ctx context.Context) ([]domain.Category, []domain.Facility, error) {
	var (
		categories []domain.Category
		facilities []domain.Facility
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = uc.backend.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		facilities, err = uc.backend.ListFacilities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, facilities, nil
}

func (uc *DashboardUsecase) CreateCategory(ctx context.Context, actor, name string, facilityIDs []string, icon *Upload) error {
	iconURL, err := uc.uploadIcon(ctx, icon)
	if err != nil {
		uc.record(ctx, actor, domain.ActionCreate, domain.ResourceCategory, "", err)
		return err
	}
	err = uc.backend.CreateCategory(ctx, domain.CategoryInput{
		Name:       strings.TrimSpace(name),
		IconImage:  iconURL,
		Facilities: nonNil(facilityIDs),
	})
	uc.record(ctx, actor, domain.ActionCreate, domain.ResourceCategory, "", err)
	return err
}

func (uc *DashboardUsecase) UpdateCategory(ctx context.Context, actor, id, name string, facilityIDs []string) error {
	err := uc.backend.UpdateCategory(ctx, id, domain.CategoryEdit{
		Name:       strings.TrimSpace(name),
		Facilities: nonNil(facilityIDs),
	})
	uc.record(ctx, actor, domain.ActionUpdate, domain.ResourceCategory, id, err)
	return err
}

func (uc *DashboardUsecase) DeleteCategory(ctx context.Context, actor, id string) error {
	err := uc.backend.DeleteCategory(ctx, id)
	uc.record(ctx, actor, domain.ActionDelete, domain.ResourceCategory, id, err)
	return err
}

func nonNil(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
