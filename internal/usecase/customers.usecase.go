package usecase

import (
	"context"

	"rentx-admin/internal/domain"
)

func (uc *DashboardUsecase) Customers(ctx context.Context) ([]domain.User, error) {
	return uc.backend.ListUsers(ctx)
}

// ToggleCustomer writes the negation of the blocked state the admin saw.
func (uc *DashboardUsecase) ToggleCustomer(ctx context.Context, actor, id string, currentlyBlocked bool) error {
	err := uc.backend.SetUserBlocked(ctx, id, !currentlyBlocked)
	uc.record(ctx, actor, domain.ActionToggle, domain.ResourceUser, id, err)
	return err
}

func (uc *DashboardUsecase) Properties(ctx context.Context) ([]domain.Property, error) {
	return uc.backend.ListProperties(ctx)
}

func (uc *DashboardUsecase) DeleteProperty(ctx context.Context, actor, id string) error {
	err := uc.backend.DeleteProperty(ctx, id)
	uc.record(ctx, actor, domain.ActionDelete, domain.ResourceProperty, id, err)
	return err
}
