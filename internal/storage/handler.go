package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	bucket *Bucket
}

func NewHandler(b *Bucket) *Handler {
	return &Handler{bucket: b}
}

// RegisterAdminRoutes mounts the upload endpoint on an already-authenticated router.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/uploads/:folder", h.upload)
}

func (h *Handler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cannot read file"})
	}
	defer f.Close()

	obj, err := h.bucket.Put(c.UserContext(), c.Params("folder"), file.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrInvalidFolder):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to store file"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": obj.URL, "key": obj.Key})
}
