package backend

import (
	"context"
	"net/http"

	"rentx-admin/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.list(ctx, "/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SetUserBlocked(ctx context.Context, id string, blocked bool) error {
	_, err := c.do(ctx, http.MethodPut, itemPath("users", id), domain.BlockUpdate{IsBlocked: blocked}, nil)
	return err
}

func (c *Client) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var props []domain.Property
	if err := c.list(ctx, "/properties/", &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("properties", id), nil, nil)
	return err
}
