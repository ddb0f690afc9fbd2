package usecase

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
)

// Login signs in against the backend and returns the backend's cookies, which become
// the session's credentials.
func (uc *DashboardUsecase) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, []*http.Cookie, error) {
	req.Email = strings.TrimSpace(req.Email)
	user, cookies, err := uc.backend.SignIn(ctx, req)
	uc.record(ctx, req.Email, domain.ActionLogin, domain.ResourceSession, "", err)
	if err != nil {
		return nil, nil, err
	}
	if user.Email == "" {
		user.Email = req.Email
	}
	uc.logger.Info("admin signed in", zap.String("email", req.Email), zap.Int("cookies", len(cookies)))
	return user, cookies, nil
}

func (uc *DashboardUsecase) Register(ctx context.Context, req domain.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	err := uc.backend.Register(ctx, req)
	uc.record(ctx, req.Email, domain.ActionRegister, domain.ResourceUser, "", err)
	return err
}

// Logout ends the backend session. ctx must carry the session's backend cookies.
func (uc *DashboardUsecase) Logout(ctx context.Context, actor string) error {
	err := uc.backend.SignOut(ctx)
	uc.record(ctx, actor, domain.ActionLogout, domain.ResourceSession, "", err)
	return err
}
