package product

import (
	"context"
	"errors"
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

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// FindBySlugOrID resolves detail links, which may carry either form.
func (s *Service) FindBySlugOrID(ctx context.Context, key string) (Product, error) {
	p, err := s.repo.GetBySlug(ctx, key)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}
	if _, perr := uuid.Parse(key); perr != nil {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, key)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	normalize(&p)
	if err := s.checkSlug(ctx, p.Slug, ""); err != nil {
		return Product{}, err
	}
	p.ID = uuid.NewString()
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, p Product) (Product, error) {
	normalize(&p)
	if err := s.checkSlug(ctx, p.Slug, id); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkSlug(ctx context.Context, sl, excludeID string) error {
	taken, err := s.repo.SlugExists(ctx, sl, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	return nil
}

func normalize(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	p.ImageURL = blankToNil(p.ImageURL)
	p.CategoryID = blankToNil(p.CategoryID)
	p.BrandID = blankToNil(p.BrandID)
	p.MetaTitle = blankToNil(p.MetaTitle)
	p.MetaDescription = blankToNil(p.MetaDescription)
	if p.RoomIDs == nil {
		p.RoomIDs = []string{}
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// Validate returns field errors keyed by JSON name. Slug is checked after
// defaulting from the name.
func Validate(p Product) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "name is required"
	}
	sl := strings.TrimSpace(p.Slug)
	if sl == "" {
		sl = slug.Make(p.Name)
	}
	if sl == "" {
		errs["slug"] = "slug is required"
	} else if !slug.Valid(sl) {
		errs["slug"] = "slug must be lowercase letters, digits and single hyphens"
	}
	if p.Price.IsNegative() {
		errs["price"] = "price must be >= 0"
	}
	if p.Stock < 0 {
		errs["stock"] = "stock must be >= 0"
	}
	for _, id := range p.RoomIDs {
		if _, err := uuid.Parse(id); err != nil {
			errs["room_ids"] = "room_ids must be UUIDs"
			break
		}
	}
	return errs
}
