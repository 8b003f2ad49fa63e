package settings

import "encoding/json"

// Key names a row in app_settings. The set is closed.
type Key string

const (
	KeyPaymentStripe Key = "payment_stripe"
	KeyPaymentPayPal Key = "payment_paypal"
	KeySEOGlobal     Key = "seo_global"
	KeySEOPages      Key = "seo_pages"
)

// Keys lists every known key in display order.
var Keys = []Key{KeyPaymentStripe, KeyPaymentPayPal, KeySEOGlobal, KeySEOPages}

// Valid reports whether k is one of the known keys.
func (k Key) Valid() bool {
	switch k {
	case KeyPaymentStripe, KeyPaymentPayPal, KeySEOGlobal, KeySEOPages:
		return true
	}
	return false
}

// Secret reports whether the value holds credentials that must be masked on read.
func (k Key) Secret() bool {
	switch k {
	case KeyPaymentStripe, KeyPaymentPayPal:
		return true
	case KeySEOGlobal, KeySEOPages:
		return false
	}
	return false
}

// Setting is one app_settings row.
type Setting struct {
	Key       Key             `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

// StripeCredentials is the value stored under payment_stripe.
type StripeCredentials struct {
	SecretKey string `json:"secretKey"`
}

// PayPalCredentials is the value stored under payment_paypal.
type PayPalCredentials struct {
	ClientID  string `json:"clientId"`
	SecretKey string `json:"secretKey"`
}

// SEOGlobal is the value stored under seo_global.
type SEOGlobal struct {
	SiteName        string `json:"site_name"`
	HomeTitle       string `json:"home_title"`
	HomeDescription string `json:"home_description"`
	OGImage         string `json:"og_image"`
}

// SEOPage is a static per-route override inside seo_pages.
type SEOPage struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Slug            string `json:"slug,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

// SEOPages maps a route key to its override.
type SEOPages map[string]SEOPage
