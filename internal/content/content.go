// Package content stores the marketing entries shown around the catalog:
// blog posts, projects, why-choose-us items, professional benefits and
// professional page sections.
package content

import (
	"strings"
	"time"

	"github.com/milluces/milluces-backend/internal/slug"
)

type Kind string

const (
	KindBlog        Kind = "blog"
	KindProjects    Kind = "projects"
	KindWhyChooseUs Kind = "why_choose_us"
	KindProBenefits Kind = "pro_benefits"
	KindProContent  Kind = "pro_content"
)

var Kinds = []Kind{KindBlog, KindProjects, KindWhyChooseUs, KindProBenefits, KindProContent}

// ParseKind accepts the route form of a kind; hyphens and underscores are interchangeable.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	switch k {
	case KindBlog, KindProjects, KindWhyChooseUs, KindProBenefits, KindProContent:
		return k, true
	}
	return "", false
}

type ValidationError map[string]string

func (v ValidationError) Error() string {
	msgs := make([]string, 0, len(v))
	for k, m := range v {
		msgs = append(msgs, k+": "+m)
	}
	return strings.Join(msgs, "; ")
}

// Record is implemented by every entry type so one repository and one
// handler can serve all kinds.
type Record[T any] interface {
	key() string
	withKey(id string) T
	slugOf() string
	less(other T) bool
	normalized() T
	validate() ValidationError
}

type Post struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Slug            string    `db:"slug" json:"slug"`
	Excerpt         string    `db:"excerpt" json:"excerpt"`
	Content         string    `db:"content" json:"content"`
	ImageURL        string    `db:"image_url" json:"image_url"`
	Category        string    `db:"category" json:"category"`
	MetaTitle       string    `db:"meta_title" json:"meta_title"`
	MetaDescription string    `db:"meta_description" json:"meta_description"`
	PublishedAt     time.Time `db:"published_at" json:"published_at"`
}

func (p Post) key() string { return p.ID }

func (p Post) withKey(id string) Post {
	p.ID = id
	return p
}

func (p Post) slugOf() string { return p.Slug }

func (p Post) less(o Post) bool { return p.PublishedAt.After(o.PublishedAt) }

func (p Post) normalized() Post {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now().UTC()
	}
	return p
}

func (p Post) validate() ValidationError {
	errs := ValidationError{}
	if p.Title == "" {
		errs["title"] = "title is required"
	}
	if !slug.Valid(p.Slug) {
		errs["slug"] = "slug must be lowercase words separated by hyphens"
	}
	return errs
}

type Project struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
	ImageURL    string `db:"image_url" json:"image_url"`
	Category    string `db:"category" json:"category"`
	OrderIndex  int    `db:"order_index" json:"order_index"`
}

func (p Project) key() string { return p.ID }

func (p Project) withKey(id string) Project {
	p.ID = id
	return p
}

func (p Project) slugOf() string { return p.Slug }

func (p Project) less(o Project) bool {
	if p.OrderIndex != o.OrderIndex {
		return p.OrderIndex < o.OrderIndex
	}
	return p.Title < o.Title
}

func (p Project) normalized() Project {
	p.Title = strings.TrimSpace(p.Title)
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = slug.Make(p.Title)
	}
	return p
}

func (p Project) validate() ValidationError {
	errs := ValidationError{}
	if p.Title == "" {
		errs["title"] = "title is required"
	}
	return errs
}

// Feature is one item of the why-choose-us and professional-benefits lists.
type Feature struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	IconName    string `db:"icon_name" json:"icon_name"`
	OrderIndex  int    `db:"order_index" json:"order_index"`
}

func (f Feature) key() string { return f.ID }

func (f Feature) withKey(id string) Feature {
	f.ID = id
	return f
}

func (f Feature) slugOf() string { return "" }

func (f Feature) less(o Feature) bool {
	if f.OrderIndex != o.OrderIndex {
		return f.OrderIndex < o.OrderIndex
	}
	return f.Title < o.Title
}

func (f Feature) normalized() Feature {
	f.Title = strings.TrimSpace(f.Title)
	f.IconName = strings.TrimSpace(f.IconName)
	return f
}

func (f Feature) validate() ValidationError {
	errs := ValidationError{}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	return errs
}

// ProSection is a block of the professionals page, grouped by Section.
type ProSection struct {
	ID         string `db:"id" json:"id"`
	Section    string `db:"section" json:"section"`
	Title      string `db:"title" json:"title"`
	Body       string `db:"body" json:"body"`
	ImageURL   string `db:"image_url" json:"image_url"`
	OrderIndex int    `db:"order_index" json:"order_index"`
}

func (s ProSection) key() string { return s.ID }

func (s ProSection) withKey(id string) ProSection {
	s.ID = id
	return s
}

func (s ProSection) slugOf() string { return "" }

func (s ProSection) less(o ProSection) bool {
	if s.Section != o.Section {
		return s.Section < o.Section
	}
	return s.OrderIndex < o.OrderIndex
}

func (s ProSection) normalized() ProSection {
	s.Section = strings.ToLower(strings.TrimSpace(s.Section))
	s.Title = strings.TrimSpace(s.Title)
	return s
}

func (s ProSection) validate() ValidationError {
	errs := ValidationError{}
	if s.Section == "" {
		errs["section"] = "section is required"
	}
	return errs
}
