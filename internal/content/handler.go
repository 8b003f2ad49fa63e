package content

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
	r.Get("/content/:kind", h.dispatch(func(e endpoints) fiber.Handler { return e.list }))
	r.Post("/content/:kind", h.dispatch(func(e endpoints) fiber.Handler { return e.create }))
	r.Get("/content/:kind/:id", h.dispatch(func(e endpoints) fiber.Handler { return e.get }))
	r.Put("/content/:kind/:id", h.dispatch(func(e endpoints) fiber.Handler { return e.update }))
	r.Delete("/content/:kind/:id", h.dispatch(func(e endpoints) fiber.Handler { return e.delete }))
}

type endpoints struct {
	list, get, create, update, delete fiber.Handler
}

func (h *Handler) dispatch(pick func(endpoints) fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := ParseKind(c.Params("kind"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "unknown content kind"})
		}
		return pick(h.endpointsFor(kind))(c)
	}
}

func (h *Handler) endpointsFor(k Kind) endpoints {
	switch k {
	case KindBlog:
		return crud(h.service.Posts)
	case KindProjects:
		return crud(h.service.Projects)
	case KindWhyChooseUs:
		return crud(h.service.WhyChooseUs)
	case KindProBenefits:
		return crud(h.service.ProBenefits)
	case KindProContent:
		return crud(h.service.ProContent)
	}
	panic("content: no endpoints for kind " + string(k))
}

func crud[T Record[T]](col *Collection[T]) endpoints {
	return endpoints{
		list: func(c *fiber.Ctx) error {
			items, err := col.List(c.UserContext())
			if err != nil {
				return writeError(c, err)
			}
			return c.JSON(items)
		},
		get: func(c *fiber.Ctx) error {
			item, err := col.Get(c.UserContext(), c.Params("id"))
			if err != nil {
				return writeError(c, err)
			}
			return c.JSON(item)
		},
		create: func(c *fiber.Ctx) error {
			var in T
			if err := c.BodyParser(&in); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
			}
			created, err := col.Create(c.UserContext(), in)
			if err != nil {
				return writeError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(created)
		},
		update: func(c *fiber.Ctx) error {
			var in T
			if err := c.BodyParser(&in); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
			}
			updated, err := col.Update(c.UserContext(), c.Params("id"), in)
			if err != nil {
				return writeError(c, err)
			}
			return c.JSON(updated)
		},
		delete: func(c *fiber.Ctx) error {
			if err := col.Delete(c.UserContext(), c.Params("id")); err != nil {
				return writeError(c, err)
			}
			return c.JSON(fiber.Map{"message": "Content deleted"})
		},
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Content not found"})
	case errors.Is(err, ErrSlugTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
