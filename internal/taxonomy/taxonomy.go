// Package taxonomy holds the flat navigation facets of the storefront:
// rooms, brands and professions.
package taxonomy

import "fmt"

type Kind string

const (
	KindRoom       Kind = "room"
	KindBrand      Kind = "brand"
	KindProfession Kind = "profession"
)

var Kinds = []Kind{KindRoom, KindBrand, KindProfession}

// ParseKind accepts the singular or plural route form ("rooms", "room").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "room", "rooms":
		return KindRoom, nil
	case "brand", "brands":
		return KindBrand, nil
	case "profession", "professions":
		return KindProfession, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// table returns the backing table. Every Kind must have a case.
func (k Kind) table() string {
	switch k {
	case KindRoom:
		return "rooms"
	case KindBrand:
		return "brands"
	case KindProfession:
		return "professions"
	}
	panic("taxonomy: unhandled kind " + string(k))
}

type Term struct {
	ID         string  `json:"id"`
	Kind       Kind    `json:"kind"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	ImageURL   *string `json:"image_url,omitempty"`
	OrderIndex int     `json:"order_index"`
}
