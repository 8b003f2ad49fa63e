package banner

import (
	"errors"
	"strconv"

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

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/sliders", h.getSliders)
	r.Post("/sliders", h.createSlider)
	r.Get("/sliders/:id", h.getSlider)
	r.Put("/sliders/:id", h.updateSlider)
	r.Delete("/sliders/:id", h.deleteSlider)
}

func (h *Handler) getSliders(c *fiber.Ctx) error {
	opts := ListOptions{ActiveOnly: c.Query("active") == "true"}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			opts.Limit = v
		}
	}
	items, err := h.service.List(c.UserContext(), opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) getSlider(c *fiber.Ctx) error {
	s, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) createSlider(c *fiber.Ctx) error {
	in := Slider{Active: true}
	image, err := storage.DecodeBody(c, &in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var created Slider
	write := func(url string) (werr error) {
		if url != "" {
			in.ImageURL = url
		}
		created, werr = h.service.Create(c.UserContext(), in)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "sliders", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateSlider(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	in := existing
	image, err := storage.DecodeBody(c, &in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var updated Slider
	write := func(url string) (werr error) {
		if url != "" {
			in.ImageURL = url
		}
		updated, werr = h.service.Update(c.UserContext(), id, in)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "sliders", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	if existing.ImageURL != updated.ImageURL {
		h.bucket.Discard(c.UserContext(), existing.ImageURL)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteSlider(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	h.bucket.Discard(c.UserContext(), existing.ImageURL)
	return c.JSON(fiber.Map{"message": "Slider deleted"})
}

func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Slider not found"})
	case storage.IsRejected(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"image": err.Error()}})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
