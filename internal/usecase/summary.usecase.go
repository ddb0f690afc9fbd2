package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rentx-admin/internal/domain"
)

// Summary gathers the dashboard figures. Property and customer counts come from the
// backend concurrently; recent activity is best-effort.
func (uc *DashboardUsecase) Summary(ctx context.Context, adminName string) (*domain.Summary, error) {
	var (
		props []domain.Property
		users []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		props, err = uc.backend.ListProperties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = uc.backend.ListUsers(gctx)
		return err
	})

	summary := &domain.Summary{AdminName: adminName}
	if recent, err := uc.audit.ListRecent(ctx, recentActivityLimit); err != nil {
		uc.logger.Warn("failed to load recent activity", zap.Error(err))
	} else {
		summary.RecentActivity = recent
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	summary.TotalProperties = len(props)
	summary.TotalCustomers = len(users)
	return summary, nil
}
