package user

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/milluces/milluces-backend/internal/csvio"
)

type Handler struct {
	service *Service
	tokens  *Tokens
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, tokens *Tokens) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterPublicRoutes mounts sign-in; r is the /api/v1 group.
func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/sign-in", h.login)
}

// RegisterProfileRoutes mounts the current-profile endpoint on an authenticated group.
func (h *Handler) RegisterProfileRoutes(r fiber.Router) {
	r.Get("/profile", h.getProfile)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/users", h.getUsers)
	r.Post("/users", h.createUser)
	r.Get("/users/export", h.export)
	r.Post("/users/import", h.importCSV)
	r.Get("/users/:id", h.getUser)
	r.Put("/users/:id", h.updateUser)
	r.Delete("/users/:id", h.deleteUser)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	profile, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	signed, err := h.tokens.Issue(profile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token":   signed,
		"profile": profile,
	})
}

// getProfile returns the profile named by the token's sub claim.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	profile, err := h.service.GetByID(c.UserContext(), claims.ProfileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(profile)
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	var in Profile
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	created, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	var in Profile
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	updated, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *Handler) export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), &buf); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="usuarios.csv"`)
	return c.Send(buf.Bytes())
}

func (h *Handler) importCSV(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cannot read file"})
	}
	defer f.Close()

	report, err := h.service.Import(c.UserContext(), f)
	if err != nil {
		if errors.Is(err, csvio.ErrMissingColumn) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(report)
}

func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
