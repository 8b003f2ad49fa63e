package banner

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service provides business logic for sliders.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]Slider, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) GetByID(ctx context.Context, id string) (Slider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, sl Slider) (Slider, error) {
	normalize(&sl)
	if errs := Validate(sl); len(errs) > 0 {
		return Slider{}, errs
	}
	sl.ID = uuid.NewString()
	return s.repo.Create(ctx, sl)
}

func (s *Service) Update(ctx context.Context, id string, sl Slider) (Slider, error) {
	normalize(&sl)
	if errs := Validate(sl); len(errs) > 0 {
		return Slider{}, errs
	}
	sl.ID = id
	return s.repo.Update(ctx, sl)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(sl *Slider) {
	sl.Title = strings.TrimSpace(sl.Title)
	sl.Subtitle = strings.TrimSpace(sl.Subtitle)
	sl.ImageURL = strings.TrimSpace(sl.ImageURL)
	sl.LinkURL = strings.TrimSpace(sl.LinkURL)
	sl.ButtonText = strings.TrimSpace(sl.ButtonText)
}
