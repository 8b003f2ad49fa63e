package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// LineItem is one cart entry as the processor sees it. UnitAmount is in cents.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	ImageURL   string
}

type StripeSessionRequest struct {
	SecretKey      string
	Currency       string
	LineItems      []LineItem
	SuccessURL     string
	CancelURL      string
	OrderID        string
	IdempotencyKey string
}

type StripeSession struct {
	ID  string
	URL string
}

// StripeGateway creates hosted checkout sessions.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, req StripeSessionRequest) (StripeSession, error)
}

// StripeClient is the production StripeGateway backed by stripe-go. A client
// is built per call because the secret key lives in the configuration store
// and may change between requests.
type StripeClient struct {
	backends *stripe.Backends
}

func NewStripeClient() *StripeClient {
	return &StripeClient{}
}

func (g *StripeClient) CreateCheckoutSession(ctx context.Context, req StripeSessionRequest) (StripeSession, error) {
	sc := client.New(req.SecretKey, g.backends)

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.OrderID != "" {
		params.ClientReferenceID = stripe.String(req.OrderID)
		params.AddMetadata("order_id", req.OrderID)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for _, li := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{li.ImageURL})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	s, err := sc.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Msg != "" {
			return StripeSession{}, errors.New(serr.Msg)
		}
		return StripeSession{}, err
	}
	return StripeSession{ID: s.ID, URL: s.URL}, nil
}
