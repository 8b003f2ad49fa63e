package banner

import "strings"

// Slider is one slide of the home page carousel.
type Slider struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ImageURL   string `json:"image_url"`
	LinkURL    string `json:"link_url"`
	ButtonText string `json:"button_text"`
	OrderIndex int    `json:"order_index"`
	Active     bool   `json:"active"`
}

// ListOptions narrows List. Limit <= 0 means no limit.
type ListOptions struct {
	ActiveOnly bool
	Limit      int
}

type ValidationError map[string]string

func (v ValidationError) Error() string {
	msgs := make([]string, 0, len(v))
	for k, m := range v {
		msgs = append(msgs, k+": "+m)
	}
	return strings.Join(msgs, "; ")
}

func Validate(s Slider) ValidationError {
	errs := ValidationError{}
	if strings.TrimSpace(s.ImageURL) == "" {
		errs["image_url"] = "image is required"
	}
	if s.LinkURL != "" && !strings.HasPrefix(s.LinkURL, "/") && !strings.HasPrefix(s.LinkURL, "http://") && !strings.HasPrefix(s.LinkURL, "https://") {
		errs["link_url"] = "link_url must be a site path or an http(s) URL"
	}
	return errs
}
