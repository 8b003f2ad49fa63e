// Package payment implements the two checkout-session endpoints. Both share
// one procedure: CORS and method gating, provider credentials from the
// configuration store, a call to the processor, and error mapping.
package payment

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Currency is fixed for every processor.
const Currency = "EUR"

// Error carries the HTTP status and body of a failed session request.
type Error struct {
	Status  int
	Message string
	Detail  json.RawMessage
}

func (e *Error) Error() string { return e.Message }

func configError(msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: msg}
}

func validationError(msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: msg}
}

func vendorError(msg string, detail json.RawMessage) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: msg, Detail: detail}
}

// CreateFunc runs the provider-specific part of a session request and returns
// the 200 response body.
type CreateFunc func(c *fiber.Ctx) (any, error)

// Endpoint wraps create with the shared prelude: permissive CORS headers on
// every response, OPTIONS answered directly, anything but POST rejected.
func Endpoint(log *zap.Logger, provider string, create CreateFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setCORSHeaders(c)

		switch c.Method() {
		case fiber.MethodOptions:
			return c.Status(fiber.StatusOK).Send(nil)
		case fiber.MethodPost:
		default:
			return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Método no permitido"})
		}

		body, err := create(c)
		if err == nil {
			return c.Status(fiber.StatusOK).JSON(body)
		}

		var perr *Error
		if !errors.As(err, &perr) {
			perr = vendorError(err.Error(), nil)
		}
		if perr.Status >= fiber.StatusInternalServerError {
			log.Error("checkout session failed", zap.String("provider", provider), zap.String("error", perr.Message))
		} else {
			log.Info("checkout session rejected", zap.String("provider", provider), zap.Int("status", perr.Status), zap.String("error", perr.Message))
		}

		resp := fiber.Map{"error": perr.Message}
		if len(perr.Detail) > 0 {
			resp["detail"] = perr.Detail
		}
		return c.Status(perr.Status).JSON(resp)
	}
}

func setCORSHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, Idempotency-Key")
}

// rawDetail returns b when it is valid JSON, otherwise b quoted as a JSON string.
func rawDetail(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}
