// Package server assembles the fiber application: public storefront and
// payment endpoints, sign-in, and the role-gated admin API.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/customer"
	"github.com/milluces/milluces-backend/internal/logger"
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

type Handlers struct {
	Payment    *payment.Handler
	Users      *user.Handler
	Storefront *storefront.Handler
	SEO        *seo.Handler
	Products   *product.Handler
	Categories *category.Handler
	Taxonomy   *taxonomy.Handler
	Orders     *order.Handler
	Customers  *customer.Handler
	Content    *content.Handler
	Sliders    *banner.Handler
	Settings   *settings.Handler
	Uploads    *storage.Handler
}

// adminAreas maps each admin path prefix to the area a role must be allowed.
var adminAreas = []struct {
	prefix string
	area   user.Area
}{
	{"/products", user.AreaCatalog},
	{"/categories", user.AreaCatalog},
	{"/taxonomy", user.AreaCatalog},
	{"/orders", user.AreaOrders},
	{"/customers", user.AreaCustomers},
	{"/content", user.AreaContent},
	{"/sliders", user.AreaContent},
	{"/seo", user.AreaSEO},
	{"/uploads", user.AreaUploads},
	{"/settings", user.AreaSettings},
	{"/users", user.AreaUsers},
}

// Options configures the parts of the app that are not handlers.
type Options struct {
	UploadDir       string
	PublicUploadURL string
}

// New builds the fiber app and mounts every route.
func New(h Handlers, tokens *user.Tokens, opts Options, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:      "milluces",
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.RequestLogger(log))

	if opts.UploadDir != "" && opts.PublicUploadURL != "" {
		app.Static(opts.PublicUploadURL, opts.UploadDir)
	}

	// The payment endpoints answer CORS themselves.
	h.Payment.RegisterPublicRoutes(app)

	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	h.Users.RegisterPublicRoutes(api)
	h.Storefront.RegisterPublicRoutes(api)
	h.SEO.RegisterPublicRoutes(api)

	api.Use("/profile", tokens.Middleware())
	h.Users.RegisterProfileRoutes(api)

	admin := api.Group("/admin", tokens.Middleware())
	for _, a := range adminAreas {
		admin.Use(a.prefix, user.RequireRole(a.area))
	}
	h.Products.RegisterAdminRoutes(admin)
	h.Categories.RegisterAdminRoutes(admin)
	h.Taxonomy.RegisterAdminRoutes(admin)
	h.Orders.RegisterAdminRoutes(admin)
	h.Customers.RegisterAdminRoutes(admin)
	h.Content.RegisterAdminRoutes(admin)
	h.Sliders.RegisterAdminRoutes(admin)
	h.SEO.RegisterAdminRoutes(admin)
	h.Uploads.RegisterAdminRoutes(admin)
	h.Settings.RegisterAdminRoutes(admin)
	h.Users.RegisterAdminRoutes(admin)

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": err.Error()})
	}
}
