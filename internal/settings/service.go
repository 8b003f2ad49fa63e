package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stripe returns the card processor credentials or ErrNotConfigured.
func (s *Service) Stripe(ctx context.Context) (StripeCredentials, error) {
	var creds StripeCredentials
	if err := s.decode(ctx, KeyPaymentStripe, &creds); err != nil {
		return StripeCredentials{}, err
	}
	creds.SecretKey = strings.TrimSpace(creds.SecretKey)
	if creds.SecretKey == "" {
		return StripeCredentials{}, ErrNotConfigured
	}
	return creds, nil
}

// PayPal returns the wallet processor credentials or ErrNotConfigured.
func (s *Service) PayPal(ctx context.Context) (PayPalCredentials, error) {
	var creds PayPalCredentials
	if err := s.decode(ctx, KeyPaymentPayPal, &creds); err != nil {
		return PayPalCredentials{}, err
	}
	creds.ClientID = strings.TrimSpace(creds.ClientID)
	creds.SecretKey = strings.TrimSpace(creds.SecretKey)
	if creds.ClientID == "" || creds.SecretKey == "" {
		return PayPalCredentials{}, ErrNotConfigured
	}
	return creds, nil
}

// SEOGlobal returns the global SEO block; a missing row yields the zero value.
func (s *Service) SEOGlobal(ctx context.Context) (SEOGlobal, error) {
	var g SEOGlobal
	raw, err := s.repo.Get(ctx, KeySEOGlobal)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return g, nil
		}
		return g, err
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return SEOGlobal{}, err
	}
	return g, nil
}

// SEOPages returns the per-route overrides; a missing row yields an empty map.
func (s *Service) SEOPages(ctx context.Context) (SEOPages, error) {
	pages := SEOPages{}
	raw, err := s.repo.Get(ctx, KeySEOPages)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return pages, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *Service) Get(ctx context.Context, key Key) (Setting, error) {
	if !key.Valid() {
		return Setting{}, ErrUnknownKey
	}
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Key: key, Value: raw}, nil
}

func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

// Put validates that value is a JSON object and stores it under key. On
// credential rows a blank or masked secret keeps the stored secret.
func (s *Service) Put(ctx context.Context, key Key, value json.RawMessage) (Setting, error) {
	if !key.Valid() {
		return Setting{}, ErrUnknownKey
	}
	var fields map[string]any
	if err := json.Unmarshal(value, &fields); err != nil {
		return Setting{}, err
	}
	if key.Secret() {
		merged, err := s.keepSecrets(ctx, key, fields)
		if err != nil {
			return Setting{}, err
		}
		value = merged
	}
	return s.repo.Upsert(ctx, key, value)
}

func (s *Service) keepSecrets(ctx context.Context, key Key, fields map[string]any) (json.RawMessage, error) {
	stored := map[string]any{}
	raw, err := s.repo.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	default:
		// an unreadable stored row has nothing worth keeping
		_ = json.Unmarshal(raw, &stored)
	}
	for k, v := range fields {
		if !secretField(k) {
			continue
		}
		str, _ := v.(string)
		if strings.TrimSpace(str) != "" && !strings.HasPrefix(str, maskPrefix) {
			continue
		}
		if old, ok := stored[k]; ok {
			fields[k] = old
		}
	}
	return json.Marshal(fields)
}

// Mask replaces secret-looking fields of credential rows so they can be shown
// in the admin without leaking the full value.
func Mask(st Setting) Setting {
	if !st.Key.Secret() {
		return st
	}
	var fields map[string]any
	if err := json.Unmarshal(st.Value, &fields); err != nil {
		return st
	}
	for k, v := range fields {
		str, ok := v.(string)
		if !ok || !secretField(k) {
			continue
		}
		fields[k] = maskString(str)
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return st
	}
	st.Value = b
	return st
}

const maskPrefix = "••••"

func secretField(name string) bool {
	return strings.Contains(strings.ToLower(name), "secret")
}

func maskString(s string) string {
	if len(s) <= 4 {
		return maskPrefix
	}
	return maskPrefix + s[len(s)-4:]
}

func (s *Service) decode(ctx context.Context, key Key, dst any) error {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotConfigured
		}
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrNotConfigured
	}
	return nil
}
