package seo

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/settings"
)

type Handler struct {
	resolver *Resolver
	store    Store
	log      *zap.Logger
}

func NewHandler(resolver *Resolver, store Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{resolver: resolver, store: store, log: log}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/seo", h.resolve)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/seo/global", h.getGlobal)
	r.Put("/seo/global", h.putGlobal)
	r.Get("/seo/pages", h.getPages)
	r.Put("/seo/pages", h.putPages)
}

func (h *Handler) resolve(c *fiber.Ctx) error {
	path := c.Query("path", "/")
	md, err := h.resolver.Resolve(c.UserContext(), path)
	if err != nil {
		h.log.Error("seo resolve failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(md)
}

func (h *Handler) getGlobal(c *fiber.Ctx) error {
	g, err := h.store.SEOGlobal(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(g)
}

func (h *Handler) putGlobal(c *fiber.Ctx) error {
	var g settings.SEOGlobal
	if err := json.Unmarshal(c.Body(), &g); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "value must be a JSON object"})
	}
	return h.save(c, settings.KeySEOGlobal, g)
}

func (h *Handler) getPages(c *fiber.Ctx) error {
	pages, err := h.store.SEOPages(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(pages)
}

func (h *Handler) putPages(c *fiber.Ctx) error {
	var pages settings.SEOPages
	if err := json.Unmarshal(c.Body(), &pages); err != nil || pages == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "value must map route keys to page entries"})
	}
	return h.save(c, settings.KeySEOPages, pages)
}

func (h *Handler) save(c *fiber.Ctx, key settings.Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if _, err := h.store.Put(c.UserContext(), key, raw); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(v)
}
