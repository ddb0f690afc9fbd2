package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"rentx-admin/internal/domain"
	xerrors "rentx-admin/pkg/utils/errors"
)

// SignIn posts the credentials to /auth/signin. It returns the signed-in user as far
// as the backend describes it and the cookies the backend set on the response.
func (c *Client) SignIn(ctx context.Context, req domain.LoginRequest) (*domain.User, []*http.Cookie, error) {
	var raw json.RawMessage
	resp, err := c.do(ctx, http.MethodPost, "/auth/signin", req, &raw)
	if errors.Is(err, xerrors.ErrEmptyResponse) {
		// A bare 2xx still signs the admin in; the cookies are what matter.
		return &domain.User{Email: req.Email}, resp.Cookies(), nil
	}
	if err != nil {
		return nil, nil, err
	}
	user, err := decodeUser(raw)
	if err != nil {
		user = &domain.User{Email: req.Email}
	}
	return user, resp.Cookies(), nil
}

// CurrentUser asks the backend who owns the credentials in ctx. Any non-200, an
// empty body or a body naming nobody is an error.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var raw json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "/auth/currentuser", nil, &raw); err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/signout", nil, nil)
	return err
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/users", req, nil)
	return err
}

// decodeUser accepts a bare user object or one wrapped in "user"/"currentUser".
// A null wrapper or a user with neither id nor email is ErrEmptyResponse.
func decodeUser(raw json.RawMessage) (*domain.User, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	body := []byte(raw)
	for _, key := range []string{"user", "currentUser"} {
		if v, ok := fields[key]; ok {
			body = v
			break
		}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: no user in response", xerrors.ErrEmptyResponse)
	}

	var u domain.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" && u.Email == "" {
		return nil, fmt.Errorf("%w: user has no id or email", xerrors.ErrEmptyResponse)
	}
	return &u, nil
}
