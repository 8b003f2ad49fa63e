package user

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Tokens signs and checks the HS256 session tokens handed out at sign-in.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(p Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"role": string(p.Role),
		"exp":  t.now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Middleware validates the bearer token and stores it in c.Locals("user").
func (t *Tokens) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    t.secret,
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// Claims is what the handlers need from a validated token.
type Claims struct {
	ProfileID string
	Role      Role
}

// ClaimsFromCtx reads the token left in locals by Middleware.
func ClaimsFromCtx(c *fiber.Ctx) (Claims, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return Claims{}, fiber.ErrUnauthorized
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fiber.ErrUnauthorized
	}
	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || !Role(role).Valid() {
		return Claims{}, fiber.ErrUnauthorized
	}
	return Claims{ProfileID: sub, Role: Role(role)}, nil
}

// RequireRole rejects requests whose role may not use area.
func RequireRole(area Area) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ClaimsFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if !claims.Role.Allows(area) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
		return c.Next()
	}
}
