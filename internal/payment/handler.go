package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/settings"
)

const (
	msgStripeNotConfigured = "Stripe no está configurado. Añade la clave secreta en Ajustes > Pagos."
	msgPayPalNotConfigured = "PayPal no está configurado. Añade el Client ID y la clave secreta en Ajustes > Pagos."
	msgInvalidBody         = "Cuerpo de la petición inválido."
	msgEmptyCart           = "El carrito está vacío."
	msgInvalidQuantity     = "La cantidad de cada artículo debe ser al menos 1."
	msgInvalidPrice        = "El precio de un artículo no puede ser negativo."
	msgInvalidTotal        = "El importe total debe ser mayor que 0."
	msgPayPalToken         = "No se pudo obtener el token de acceso de PayPal. Revisa el Client ID y la clave secreta en la configuración."
	msgPayPalNoOrder       = "PayPal no devolvió un identificador de pedido."
	msgPayPalNoApprove     = "PayPal no devolvió un enlace de aprobación."
)

// Credentials is the slice of the configuration store the endpoints read.
type Credentials interface {
	Stripe(ctx context.Context) (settings.StripeCredentials, error)
	PayPal(ctx context.Context) (settings.PayPalCredentials, error)
}

type Handler struct {
	creds   Credentials
	stripe  StripeGateway
	wallet  WalletGateway
	siteURL string
	log     *zap.Logger
}

func NewHandler(creds Credentials, stripe StripeGateway, wallet WalletGateway, siteURL string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{creds: creds, stripe: stripe, wallet: wallet, siteURL: siteURL, log: log}
}

// RegisterPublicRoutes mounts both endpoints for every method so the shared
// procedure can answer preflight and reject other verbs itself.
func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.All("/api/create-stripe-session", Endpoint(h.log, "stripe", h.createStripeSession))
	r.All("/api/create-paypal-order", Endpoint(h.log, "paypal", h.createPayPalOrder))
}

type cartItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	ImageURL string          `json:"image_url"`
}

type stripeSessionBody struct {
	Items   []cartItem `json:"items"`
	OrderID string     `json:"orderId"`
}

type paypalOrderBody struct {
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderID    string          `json:"orderId"`
}

// UnitAmount converts a price in euros to integer cents, rounding half away
// from zero.
func UnitAmount(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (h *Handler) createStripeSession(c *fiber.Ctx) (any, error) {
	var body stripeSessionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return nil, validationError(msgInvalidBody)
	}

	ctx := c.UserContext()
	creds, err := h.creds.Stripe(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrNotConfigured) {
			return nil, configError(msgStripeNotConfigured)
		}
		return nil, err
	}

	if len(body.Items) == 0 {
		return nil, validationError(msgEmptyCart)
	}
	items := make([]LineItem, 0, len(body.Items))
	for _, it := range body.Items {
		if it.Quantity < 1 {
			return nil, validationError(msgInvalidQuantity)
		}
		if it.Price.IsNegative() {
			return nil, validationError(msgInvalidPrice)
		}
		items = append(items, LineItem{
			Name:       it.Name,
			UnitAmount: UnitAmount(it.Price),
			Quantity:   it.Quantity,
			ImageURL:   it.ImageURL,
		})
	}

	order := url.QueryEscape(body.OrderID)
	session, err := h.stripe.CreateCheckoutSession(ctx, StripeSessionRequest{
		SecretKey:      creds.SecretKey,
		Currency:       strings.ToLower(Currency),
		LineItems:      items,
		SuccessURL:     h.siteURL + "/pedido-confirmado?order=" + order + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      h.siteURL + "/checkout?order=" + order + "&cancelled=true",
		OrderID:        body.OrderID,
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, vendorError(err.Error(), nil)
	}
	return fiber.Map{"url": session.URL, "sessionId": session.ID}, nil
}

func (h *Handler) createPayPalOrder(c *fiber.Ctx) (any, error) {
	var body paypalOrderBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return nil, validationError(msgInvalidBody)
	}

	ctx := c.UserContext()
	creds, err := h.creds.PayPal(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrNotConfigured) {
			return nil, configError(msgPayPalNotConfigured)
		}
		return nil, err
	}

	if !body.TotalPrice.IsPositive() {
		return nil, validationError(msgInvalidTotal)
	}

	token, err := h.wallet.AccessToken(ctx, creds.ClientID, creds.SecretKey)
	if err != nil {
		return nil, vendorError(err.Error(), nil)
	}
	if token == "" {
		return nil, vendorError(msgPayPalToken, nil)
	}

	order := url.QueryEscape(body.OrderID)
	created, err := h.wallet.CreateOrder(ctx, WalletOrderRequest{
		AccessToken: token,
		OrderID:     body.OrderID,
		Amount:      body.TotalPrice.StringFixed(2),
		Currency:    Currency,
		ReturnURL:   h.siteURL + "/pedido-confirmado?order=" + order + "&provider=paypal",
		CancelURL:   h.siteURL + "/checkout?order=" + order + "&cancelled=true",
		RequestID:   c.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, vendorError(err.Error(), nil)
	}
	if created.ID == "" {
		return nil, vendorError(msgPayPalNoOrder, rawDetail(created.Raw))
	}
	approve := created.ApproveURL()
	if approve == "" {
		return nil, vendorError(msgPayPalNoApprove, rawDetail(created.Raw))
	}
	return fiber.Map{"orderId": created.ID, "approveUrl": approve}, nil
}
