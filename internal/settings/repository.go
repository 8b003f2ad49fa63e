package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("setting not found")
	ErrNotConfigured = errors.New("provider not configured")
	ErrUnknownKey    = errors.New("unknown setting key")
)

type Repository interface {
	Get(ctx context.Context, key Key) (json.RawMessage, error)
	Upsert(ctx context.Context, key Key, value json.RawMessage) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
}

// InMemoryRepository is useful for tests and local runs without a database.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[Key]Setting
}

func NewInMemoryRepository(seed map[Key]any) *InMemoryRepository {
	r := &InMemoryRepository{rows: make(map[Key]Setting, len(seed))}
	for k, v := range seed {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		r.rows[k] = Setting{Key: k, Value: b}
	}
	return r
}

func (r *InMemoryRepository) Get(_ context.Context, key Key) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rows[key]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Value, nil
}

func (r *InMemoryRepository) Upsert(_ context.Context, key Key, value json.RawMessage) (Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC().Format(time.RFC3339)}
	r.rows[key] = s
	return s, nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Setting, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
