package order

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milluces/milluces-backend/internal/product"
)

// ProductLookup resolves catalogue data for manually created orders.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// Service provides business logic for orders.
type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(r Repository, products ProductLookup) *Service {
	return &Service{repo: r, products: products}
}

type ItemInput struct {
	ProductID   *string          `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

type CreateInput struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	PaymentMethod   string      `json:"payment_method"`
	Status          Status      `json:"status"`
	Items           []ItemInput `json:"items"`
}

type ValidationError map[string]string

func (v ValidationError) Error() string { return "invalid order" }

func (s *Service) List(ctx context.Context, status Status) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, ValidationError{"status": "unknown status"}
	}
	return s.repo.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Create builds a manual order. Items referencing a product copy its name and
// price when those are omitted; the total is always recomputed from items.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	errs := ValidationError{}
	if strings.TrimSpace(in.CustomerName) == "" {
		errs["customer_name"] = "customer_name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.CustomerEmail)); err != nil {
		errs["customer_email"] = "a valid customer_email is required"
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !in.Status.Valid() {
		errs["status"] = "unknown status"
	}
	if len(in.Items) == 0 {
		errs["items"] = "at least one item is required"
	}

	o := Order{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		Status:          in.Status,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		PaymentStatus:   PaymentPending,
	}
	if o.Status == StatusPaid {
		o.PaymentStatus = PaymentPaid
	}

	for i, it := range in.Items {
		item, err := s.resolveItem(ctx, it)
		if err != nil {
			var ve ValidationError
			if errors.As(err, &ve) {
				for k, v := range ve {
					errs[fmt.Sprintf("items[%d].%s", i, k)] = v
				}
				continue
			}
			return Order{}, err
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}
	if len(errs) > 0 {
		return Order{}, errs
	}
	o.Total = Total(o.Items)
	return s.repo.Create(ctx, o)
}

func (s *Service) resolveItem(ctx context.Context, in ItemInput) (Item, error) {
	item := Item{ID: uuid.NewString(), ProductName: strings.TrimSpace(in.ProductName), Quantity: in.Quantity}
	if in.Quantity < 1 {
		return Item{}, ValidationError{"quantity": "quantity must be at least 1"}
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}

	if in.ProductID != nil && *in.ProductID != "" {
		item.ProductID = in.ProductID
		if item.ProductName == "" || in.UnitPrice == nil {
			if s.products == nil {
				return Item{}, ValidationError{"product_id": "product lookup unavailable"}
			}
			p, err := s.products.GetByID(ctx, *in.ProductID)
			if errors.Is(err, product.ErrNotFound) {
				return Item{}, ValidationError{"product_id": "product does not exist"}
			}
			if err != nil {
				return Item{}, err
			}
			if item.ProductName == "" {
				item.ProductName = p.Name
			}
			if in.UnitPrice == nil {
				item.UnitPrice = p.Price
			}
		}
	}

	if item.ProductName == "" {
		return Item{}, ValidationError{"product_name": "product_name is required"}
	}
	if in.UnitPrice == nil && item.ProductID == nil {
		return Item{}, ValidationError{"unit_price": "unit_price is required"}
	}
	if item.UnitPrice.IsNegative() {
		return Item{}, ValidationError{"unit_price": "unit_price must be >= 0"}
	}
	return item, nil
}

// UpdateStatus applies a transition. Setting the current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, ValidationError{"status": "unknown status"}
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status == next {
		return o, nil
	}
	if !o.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return Order{}, err
	}
	o.Status = next
	return o, nil
}

func (s *Service) UpdatePayment(ctx context.Context, id, method string, status PaymentStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, ValidationError{"payment_status": "unknown payment status"}
	}
	if err := s.repo.UpdatePayment(ctx, id, strings.TrimSpace(method), status); err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
