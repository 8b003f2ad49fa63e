package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound           = errors.New("profile not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles []Profile
}

func NewInMemoryRepository(seed []Profile) *InMemoryRepository {
	return &InMemoryRepository{profiles: append([]Profile(nil), seed...)}
}

func (r *InMemoryRepository) List(_ context.Context) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return Profile{}, ErrEmailExists
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.profiles = append(r.profiles, p)
	return p, nil
}

func (r *InMemoryRepository) Update(_ context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, existing := range r.profiles {
		if existing.ID == p.ID {
			idx = i
		} else if strings.EqualFold(existing.Email, p.Email) {
			return Profile{}, ErrEmailExists
		}
	}
	if idx < 0 {
		return Profile{}, ErrNotFound
	}
	p.CreatedAt = r.profiles[idx].CreatedAt
	r.profiles[idx] = p
	return p, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.profiles {
		if p.ID == id {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
