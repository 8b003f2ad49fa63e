package category

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/milluces/milluces-backend/internal/storage"
)

type Handler struct {
	service *Service
	bucket  *storage.Bucket
}

func NewHandler(s *Service, bucket *storage.Bucket) *Handler {
	return &Handler{service: s, bucket: bucket}
}

// RegisterAdminRoutes mounts category CRUD on an already-authenticated router.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/categories", h.getCategories)
	r.Post("/categories", h.createCategory)
	r.Get("/categories/:id", h.getCategory)
	r.Put("/categories/:id", h.updateCategory)
	r.Delete("/categories/:id", h.deleteCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	var (
		items []Category
		err   error
	)
	if c.Query("view") == "tree" {
		items, err = h.service.Tree(c.UserContext())
	} else {
		items, err = h.service.List(c.UserContext())
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(items)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	cat, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cat)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	in := new(Category)
	image, err := storage.DecodeBody(c, in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var created Category
	write := func(url string) (werr error) {
		if url != "" {
			in.ImageURL = &url
		}
		created, werr = h.service.Create(c.UserContext(), *in)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "categories", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	in := new(Category)
	image, err := storage.DecodeBody(c, in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var updated Category
	write := func(url string) (werr error) {
		if url != "" {
			in.ImageURL = &url
		}
		updated, werr = h.service.Update(c.UserContext(), id, *in)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "categories", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Category not found"})
	case errors.Is(err, ErrSlugTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": fiber.Map{"slug": err.Error()}})
	case errors.Is(err, ErrHasChildren), errors.Is(err, ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case storage.IsRejected(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"image": err.Error()}})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
