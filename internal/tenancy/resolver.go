package tenancy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Store loads active tenants.
type Store interface {
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// Resolver resolves tenants by slug or id through a small expiring LRU.
// Misses are not cached.
type Resolver struct {
	store  Store
	bySlug *expirable.LRU[string, Tenant]
	byID   *expirable.LRU[uuid.UUID, Tenant]
}

func NewResolver(store Store, size int, ttl time.Duration) *Resolver {
	if size <= 0 {
		size = 512
	}
	return &Resolver{
		store:  store,
		bySlug: expirable.NewLRU[string, Tenant](size, nil, ttl),
		byID:   expirable.NewLRU[uuid.UUID, Tenant](size, nil, ttl),
	}
}

func (r *Resolver) BySlug(ctx context.Context, slug string) (Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if t, ok := r.bySlug.Get(slug); ok {
		return t, nil
	}

	m, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return Tenant{}, err
	}
	return r.remember(m), nil
}

func (r *Resolver) ByID(ctx context.Context, id uuid.UUID) (Tenant, error) {
	if t, ok := r.byID.Get(id); ok {
		return t, nil
	}

	m, err := r.store.GetByID(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	return r.remember(m), nil
}

// Forget drops a tenant after its settings change.
func (r *Resolver) Forget(t Tenant) {
	r.byID.Remove(t.ID)
	r.bySlug.Remove(t.Slug)
}

func (r *Resolver) remember(m *models.Tenant) Tenant {
	t := FromModel(m)
	r.bySlug.Add(t.Slug, t)
	r.byID.Add(t.ID, t)
	return t
}
