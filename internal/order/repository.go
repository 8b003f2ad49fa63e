package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Repository interface {
	List(ctx context.Context, status Status) ([]Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, id, method string, status PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	return &InMemoryRepository{orders: append([]Order(nil), seed...)}
}

func (r *InMemoryRepository) List(_ context.Context, status Status) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	return r.update(id, func(o *Order) { o.Status = status })
}

func (r *InMemoryRepository) UpdatePayment(_ context.Context, id, method string, status PaymentStatus) error {
	return r.update(id, func(o *Order) {
		if method != "" {
			o.PaymentMethod = method
		}
		o.PaymentStatus = status
	})
}

func (r *InMemoryRepository) update(id string, fn func(*Order)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			fn(&r.orders[i])
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
