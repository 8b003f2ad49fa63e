package server

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/config"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/customer"
	"github.com/milluces/milluces-backend/internal/order"
	"github.com/milluces/milluces-backend/internal/payment"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/seo"
	"github.com/milluces/milluces-backend/internal/settings"
	"github.com/milluces/milluces-backend/internal/storage"
	"github.com/milluces/milluces-backend/internal/storefront"
	"github.com/milluces/milluces-backend/internal/taxonomy"
	"github.com/milluces/milluces-backend/internal/user"
)

// Services holds one instance of every domain service.
type Services struct {
	Settings   *settings.Service
	Products   *product.Service
	Categories *category.Service
	Taxonomy   *taxonomy.Service
	Orders     *order.Service
	Customers  *customer.Service
	Users      *user.Service
	Content    *content.Service
	Sliders    *banner.Service
}

// NewPostgresServices wires every service to its Postgres repository on db.
func NewPostgresServices(db *sql.DB, log *zap.Logger) *Services {
	products := product.NewService(product.NewPostgresRepository(db))
	return &Services{
		Settings:   settings.NewService(settings.NewPostgresRepository(db)),
		Products:   products,
		Categories: category.NewService(category.NewPostgresRepository(db)),
		Taxonomy:   taxonomy.NewService(taxonomy.NewPostgresRepository(db)),
		Orders:     order.NewService(order.NewPostgresRepository(db), products),
		Customers:  customer.NewService(customer.NewPostgresRepository(db), log),
		Users:      user.NewService(user.NewPostgresRepository(db), log),
		Content:    content.NewPostgresService(sqlx.NewDb(db, "pgx")),
		Sliders:    banner.NewService(banner.NewPostgresRepository(db)),
	}
}

// Gateways are the outbound payment clients.
type Gateways struct {
	Stripe payment.StripeGateway
	Wallet payment.WalletGateway
}

func NewGateways(cfg *config.Config) Gateways {
	return Gateways{
		Stripe: payment.NewStripeClient(),
		Wallet: payment.NewPayPalClient(cfg.PayPalAPIBase),
	}
}

// Handlers builds every HTTP handler from the services.
func (s *Services) Handlers(cfg *config.Config, gw Gateways, bucket *storage.Bucket, tokens *user.Tokens, log *zap.Logger) Handlers {
	return Handlers{
		Payment: payment.NewHandler(s.Settings, gw.Stripe, gw.Wallet, cfg.SiteURL, log),
		Users:   user.NewHandler(s.Users, tokens),
		Storefront: storefront.NewHandler(storefront.Sources{
			Products:    s.Products,
			Categories:  s.Categories,
			Taxonomy:    s.Taxonomy,
			Sliders:     s.Sliders,
			Posts:       s.Content.Posts,
			Projects:    s.Content.Projects,
			WhyChooseUs: s.Content.WhyChooseUs,
			ProBenefits: s.Content.ProBenefits,
			ProContent:  s.Content.ProContent,
		}, log),
		SEO:        seo.NewHandler(seo.NewResolver(s.Settings, s.Products, s.Content.Posts, cfg.SiteURL), s.Settings, log),
		Products:   product.NewHandler(s.Products, bucket),
		Categories: category.NewHandler(s.Categories, bucket),
		Taxonomy:   taxonomy.NewHandler(s.Taxonomy),
		Orders:     order.NewHandler(s.Orders),
		Customers:  customer.NewHandler(s.Customers),
		Content:    content.NewHandler(s.Content),
		Sliders:    banner.NewHandler(s.Sliders, bucket),
		Settings:   settings.NewHandler(s.Settings),
		Uploads:    storage.NewHandler(bucket),
	}
}
