package backend

import (
	"context"
	"net/http"

	"rentx-admin/internal/domain"
)

func (c *Client) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	var facilities []domain.Facility
	if err := c.list(ctx, "/facilities/", &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (c *Client) CreateFacility(ctx context.Context, in domain.FacilityInput) error {
	_, err := c.do(ctx, http.MethodPost, "/facilities/", in, nil)
	return err
}

func (c *Client) UpdateFacility(ctx context.Context, id string, edit domain.FacilityEdit) error {
	_, err := c.do(ctx, http.MethodPut, itemPath("facilities", id), edit, nil)
	return err
}

func (c *Client) DeleteFacility(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("facilities", id), nil, nil)
	return err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.list(ctx, "/categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) error {
	if in.Facilities == nil {
		in.Facilities = []string{}
	}
	_, err := c.do(ctx, http.MethodPost, "/categories/", in, nil)
	return err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, edit domain.CategoryEdit) error {
	if edit.Facilities == nil {
		edit.Facilities = []string{}
	}
	_, err := c.do(ctx, http.MethodPut, itemPath("categories", id), edit, nil)
	return err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath("categories", id), nil, nil)
	return err
}
