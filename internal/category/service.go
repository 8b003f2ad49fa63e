package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/milluces/milluces-backend/internal/slug"
)

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Tree returns top-level categories with their children attached, both
// levels ordered by order_index then name.
func (s *Service) Tree(ctx context.Context) ([]Category, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortCategories(all)

	children := map[string][]Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	out := make([]Category, 0)
	for _, c := range all {
		if c.ParentID == nil {
			c.Children = children[c.ID]
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, c Category) (Category, error) {
	normalize(&c)
	if err := s.validate(ctx, c, ""); err != nil {
		return Category{}, err
	}
	c.ID = uuid.NewString()
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, c Category) (Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Category{}, err
	}
	normalize(&c)
	if err := s.validate(ctx, c, id); err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, id, c)
}

// Delete refuses to orphan subcategories or products.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrHasChildren
	}
	n, err = s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	return s.repo.Delete(ctx, id)
}

func normalize(c *Category) {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if c.ParentID != nil && strings.TrimSpace(*c.ParentID) == "" {
		c.ParentID = nil
	}
	if c.ImageURL != nil && strings.TrimSpace(*c.ImageURL) == "" {
		c.ImageURL = nil
	}
	if c.Kind == "" {
		c.Kind = KindTop
		if c.ParentID != nil {
			c.Kind = KindSub
		}
	}
	if c.Kind == KindTop {
		c.ParentID = nil
	}
	c.Children = nil
}

// validate enforces field rules and the single nesting level. id is empty on create.
func (s *Service) validate(ctx context.Context, c Category, id string) error {
	errs := ValidationError{}
	if c.Name == "" {
		errs["name"] = "name is required"
	}
	if !slug.Valid(c.Slug) {
		errs["slug"] = "slug must be lowercase letters, digits and single hyphens"
	}
	if c.IconName != "" && !c.IconName.Valid() {
		errs["icon_name"] = "unknown icon"
	}
	if c.Kind != KindTop && c.Kind != KindSub {
		errs["kind"] = "kind must be top or sub"
	}
	if c.Kind == KindSub {
		if err := s.checkParent(ctx, c, id, errs); err != nil {
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}

	taken, err := s.repo.SlugExists(ctx, c.Slug, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	return nil
}

func (s *Service) checkParent(ctx context.Context, c Category, id string, errs ValidationError) error {
	if c.ParentID == nil {
		errs["parent_id"] = "a subcategory needs a parent"
		return nil
	}
	if *c.ParentID == id {
		errs["parent_id"] = "a category cannot be its own parent"
		return nil
	}
	parent, err := s.repo.GetByID(ctx, *c.ParentID)
	if errors.Is(err, ErrNotFound) {
		errs["parent_id"] = "parent category does not exist"
		return nil
	}
	if err != nil {
		return err
	}
	if parent.ParentID != nil {
		errs["parent_id"] = "parent must be a top-level category"
	}
	if id != "" {
		n, err := s.repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			errs["parent_id"] = "a category with subcategories cannot become a subcategory"
		}
	}
	return nil
}
