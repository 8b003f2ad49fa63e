package settings

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterAdminRoutes mounts the settings editor on an already-authenticated router.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/settings", h.list)
	r.Get("/settings/:key", h.get)
	r.Put("/settings/:key", h.put)
}

func (h *Handler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	for i := range items {
		items[i] = Mask(items[i])
	}
	return c.JSON(items)
}

func (h *Handler) get(c *fiber.Ctx) error {
	st, err := h.service.Get(c.UserContext(), Key(c.Params("key")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(Mask(st))
}

func (h *Handler) put(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	st, err := h.service.Put(c.UserContext(), Key(c.Params("key")), json.RawMessage(append([]byte(nil), body...)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(Mask(st))
}

func writeError(c *fiber.Ctx, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, ErrUnknownKey):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "value must be a JSON object"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
