package taxonomy

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/milluces/milluces-backend/internal/slug"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Term, error) {
	return s.repo.List(ctx, kind)
}

func (s *Service) Get(ctx context.Context, kind Kind, id string) (Term, error) {
	return s.repo.GetByID(ctx, kind, id)
}

func (s *Service) Create(ctx context.Context, kind Kind, t Term) (Term, error) {
	t.Kind = kind
	t.ID = uuid.NewString()
	if err := s.prepare(ctx, &t); err != nil {
		return Term{}, err
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, kind Kind, id string, t Term) (Term, error) {
	t.Kind = kind
	t.ID = id
	if err := s.prepare(ctx, &t); err != nil {
		return Term{}, err
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	return s.repo.Delete(ctx, kind, id)
}

func (s *Service) prepare(ctx context.Context, t *Term) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Slug = strings.TrimSpace(t.Slug)
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	if t.ImageURL != nil && strings.TrimSpace(*t.ImageURL) == "" {
		t.ImageURL = nil
	}

	errs := ValidationError{}
	if t.Name == "" {
		errs["name"] = "name is required"
	}
	if !slug.Valid(t.Slug) {
		errs["slug"] = "slug must be lowercase letters, digits and single hyphens"
	}
	if len(errs) > 0 {
		return errs
	}

	taken, err := s.repo.SlugExists(ctx, t.Kind, t.Slug, t.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	return nil
}

type ValidationError map[string]string

func (v ValidationError) Error() string { return "invalid term" }
