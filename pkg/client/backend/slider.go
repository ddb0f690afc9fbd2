package backend

import (
	"context"
	"net/http"

	"rentx-admin/internal/domain"
)

func (c *Client) ListSlider(ctx context.Context) ([]domain.SliderEntry, error) {
	var entries []domain.SliderEntry
	if err := c.list(ctx, "/slider/", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateSlider(ctx context.Context, propertyID string) error {
	_, err := c.do(ctx, http.MethodPost, "/slider/", domain.SliderInput{Property: propertyID}, nil)
	return err
}

func (c *Client) SetSliderActive(ctx context.Context, id string, active bool) error {
	_, err := c.do(ctx, http.MethodPut, itemPath("slider", id), domain.SliderActiveUpdate{IsActive: active}, nil)
	return err
}

func (c *Client) DeleteSlider(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("slider", id), nil, nil)
	return err
}
