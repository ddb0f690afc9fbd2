package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"rentx-admin/internal/domain"
)

// SliderView is the slider screen: current entries plus the property picker.
type SliderView struct {
	Entries    []domain.SliderEntry
	Properties []domain.Property
	Query      string
}

// Slider loads the entries and the full property list, then narrows the picker to
// properties matching query.
func (uc *DashboardUsecase) Slider(ctx context.Context, query string) (*SliderView, error) {
	view := &SliderView{Query: query}
	var props []domain.Property

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Entries, err = uc.backend.ListSlider(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		props, err = uc.backend.ListProperties(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return &SliderView{Query: query}, err
	}

	view.Properties = FilterProperties(props, query)
	return view, nil
}

// FilterProperties keeps properties whose title, category name, city or address
// contains query, ignoring case. An empty query keeps everything.
func FilterProperties(props []domain.Property, query string) []domain.Property {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return props
	}
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		for _, field := range []string{p.Title, p.Category.Name, p.City, p.Address} {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (uc *DashboardUsecase) AddSlider(ctx context.Context, actor, propertyID string) error {
	err := uc.backend.CreateSlider(ctx, propertyID)
	uc.record(ctx, actor, domain.ActionCreate, domain.ResourceSlider, propertyID, err)
	return err
}

func (uc *DashboardUsecase) ToggleSlider(ctx context.Context, actor, id string, currentlyActive bool) error {
	err := uc.backend.SetSliderActive(ctx, id, !currentlyActive)
	uc.record(ctx, actor, domain.ActionToggle, domain.ResourceSlider, id, err)
	return err
}

func (uc *DashboardUsecase) DeleteSlider(ctx context.Context, actor, id string) error {
	err := uc.backend.DeleteSlider(ctx, id)
	uc.record(ctx, actor, domain.ActionDelete, domain.ResourceSlider, id, err)
	return err
}
