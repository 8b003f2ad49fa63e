package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/milluces/milluces-backend/internal/storage"
)

type Handler struct {
	service *Service
	bucket  *storage.Bucket
}

func NewHandler(service *Service, bucket *storage.Bucket) *Handler {
	return &Handler{service: service, bucket: bucket}
}

// RegisterAdminRoutes mounts product CRUD on an already-authenticated router.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/products", h.getProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/:id", h.getProduct)
	r.Put("/products/:id", h.updateProduct)
	r.Delete("/products/:id", h.deleteProduct)
}

// FilterFromQuery reads the listing filters shared by the admin and store views.
func FilterFromQuery(c *fiber.Ctx) Filter {
	f := Filter{
		CategorySlug: c.Query("category"),
		RoomSlug:     c.Query("room"),
		BrandSlug:    c.Query("brand"),
	}
	switch c.Query("featured") {
	case "true", "1":
		v := true
		f.Featured = &v
	case "false", "0":
		v := false
		f.Featured = &v
	}
	return f
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), FilterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	image, err := storage.DecodeBody(c, p)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := Validate(*p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	var created Product
	write := func(url string) (werr error) {
		if url != "" {
			p.ImageURL = &url
		}
		created, werr = h.service.Create(c.UserContext(), *p)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "products", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	p := new(Product)
	image, err := storage.DecodeBody(c, p)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := Validate(*p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	var updated Product
	write := func(url string) (werr error) {
		if url != "" {
			p.ImageURL = &url
		}
		updated, werr = h.service.Update(c.UserContext(), id, *p)
		return werr
	}
	if image != nil && h.bucket != nil {
		err = h.bucket.AttachFile(c.UserContext(), "products", image, write)
	} else {
		err = write("")
	}
	if err != nil {
		return writeError(c, err)
	}
	if existing.ImageURL != nil && (updated.ImageURL == nil || *updated.ImageURL != *existing.ImageURL) {
		h.bucket.Discard(c.UserContext(), *existing.ImageURL)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	if existing.ImageURL != nil {
		h.bucket.Discard(c.UserContext(), *existing.ImageURL)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	case errors.Is(err, ErrSlugTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": fiber.Map{"slug": err.Error()}})
	case storage.IsRejected(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"image": err.Error()}})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
