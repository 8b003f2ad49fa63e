package taxonomy

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/taxonomy/:kind", withKind(h.list))
	r.Post("/taxonomy/:kind", withKind(h.create))
	r.Get("/taxonomy/:kind/:id", withKind(h.get))
	r.Put("/taxonomy/:kind/:id", withKind(h.update))
	r.Delete("/taxonomy/:kind/:id", withKind(h.delete))
}

func withKind(next func(*fiber.Ctx, Kind) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := ParseKind(c.Params("kind"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		}
		return next(c, kind)
	}
}

func (h *Handler) list(c *fiber.Ctx, kind Kind) error {
	terms, err := h.service.List(c.UserContext(), kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(terms)
}

func (h *Handler) get(c *fiber.Ctx, kind Kind) error {
	t, err := h.service.Get(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) create(c *fiber.Ctx, kind Kind) error {
	var in Term
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	t, err := h.service.Create(c.UserContext(), kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) update(c *fiber.Ctx, kind Kind) error {
	var in Term
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	t, err := h.service.Update(c.UserContext(), kind, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) delete(c *fiber.Ctx, kind Kind) error {
	if err := h.service.Delete(c.UserContext(), kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrSlugTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": fiber.Map{"slug": err.Error()}})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
