package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("SITE_URL", "https://staging.milluces.com/")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SiteURL != "https://staging.milluces.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.SiteURL)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", cfg.TokenTTL)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error without DATABASE_URL")
	}
}

func TestLoad_EmptySiteURLFallsBack(t *testing.T) {
	t.Setenv("SITE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SiteURL != DefaultSiteURL {
		t.Fatalf("expected %q, got %q", DefaultSiteURL, cfg.SiteURL)
	}
}
