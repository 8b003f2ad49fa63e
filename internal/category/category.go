package category

import "time"

// Icon names the storefront glyph drawn next to a category.
type Icon string

const (
	IconLightbulb Icon = "lightbulb"
	IconLamp      Icon = "lamp"
	IconPlug      Icon = "plug"
	IconCable     Icon = "cable"
	IconSun       Icon = "sun"
	IconZap       Icon = "zap"
	IconHome      Icon = "home"
	IconBuilding  Icon = "building"
	IconWrench    Icon = "wrench"
	IconShield    Icon = "shield"
)

var Icons = []Icon{
	IconLightbulb, IconLamp, IconPlug, IconCable, IconSun,
	IconZap, IconHome, IconBuilding, IconWrench, IconShield,
}

func (i Icon) Valid() bool {
	switch i {
	case IconLightbulb, IconLamp, IconPlug, IconCable, IconSun,
		IconZap, IconHome, IconBuilding, IconWrench, IconShield:
		return true
	}
	return false
}

// Kind separates top-level categories from subcategories.
type Kind string

const (
	KindTop Kind = "top"
	KindSub Kind = "sub"
)

// Category maps to the `categories` table. Kind is derived from ParentID on
// reads and is an input on writes.
type Category struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Kind       Kind       `json:"kind"`
	ParentID   *string    `json:"parent_id"`
	IconName   Icon       `json:"icon_name,omitempty"`
	ImageURL   *string    `json:"image_url,omitempty"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
	Children   []Category `json:"children,omitempty"`
}

// ValidationError lists field problems keyed by JSON name.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	return "invalid category"
}
