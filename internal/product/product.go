package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product maps to the `products` table. The *Slug fields and RoomSlugs are
// read-only joins filled on reads for storefront filtering and links.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CategoryID      *string         `json:"category_id,omitempty"`
	BrandID         *string         `json:"brand_id,omitempty"`
	Stock           int             `json:"stock"`
	Description     string          `json:"description"`
	MetaTitle       *string         `json:"meta_title,omitempty"`
	MetaDescription *string         `json:"meta_description,omitempty"`
	Featured        bool            `json:"featured"`
	RoomIDs         []string        `json:"room_ids"`
	CreatedAt       time.Time       `json:"created_at"`

	CategorySlug       string   `json:"category_slug,omitempty"`
	ParentCategorySlug string   `json:"parent_category_slug,omitempty"`
	BrandSlug          string   `json:"brand_slug,omitempty"`
	RoomSlugs          []string `json:"room_slugs,omitempty"`
}

// Filter narrows List. Empty fields do not filter. CategorySlug also matches
// products of its subcategories.
type Filter struct {
	CategorySlug string
	RoomSlug     string
	BrandSlug    string
	Featured     *bool
}

func (f Filter) match(p Product) bool {
	if f.CategorySlug != "" && p.CategorySlug != f.CategorySlug && p.ParentCategorySlug != f.CategorySlug {
		return false
	}
	if f.BrandSlug != "" && p.BrandSlug != f.BrandSlug {
		return false
	}
	if f.RoomSlug != "" && !contains(p.RoomSlugs, f.RoomSlug) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
