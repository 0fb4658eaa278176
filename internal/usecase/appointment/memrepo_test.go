package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// memRepo is an in-memory Repository. WithProfessionalLock serializes
// writers per professional the way the advisory lock does in postgres.
type memRepo struct {
	mu    sync.Mutex
	locks sync.Map

	tenants      map[uuid.UUID]models.Tenant
	pros         map[uuid.UUID]models.Professional
	services     map[uuid.UUID]models.Service
	hours        map[uuid.UUID]map[int]models.WorkingHours
	clients      []models.Client
	appointments []models.Appointment

	occupyingCalls int
	// runs once after the next ListOccupying read
	afterOccupying func()
}

var _ domain.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		tenants:  map[uuid.UUID]models.Tenant{},
		pros:     map[uuid.UUID]models.Professional{},
		services: map[uuid.UUID]models.Service{},
		hours:    map[uuid.UUID]map[int]models.WorkingHours{},
	}
}

func (r *memRepo) GetTenantByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, httperr.ErrNotFound("tenant_not_found")
	}
	return &t, nil
}

func (r *memRepo) GetProfessional(_ context.Context, tenantID, id uuid.UUID) (*models.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pros[id]
	if !ok || p.TenantID != tenantID {
		return nil, httperr.ErrNotFound("professional_not_found")
	}
	return &p, nil
}

func (r *memRepo) GetService(_ context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok || s.TenantID != tenantID {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return &s, nil
}

func (r *memRepo) GetOrCreateClient(_ context.Context, tenantID uuid.UUID, data domain.ClientData) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.Phone == data.Phone {
			c := c
			return &c, nil
		}
	}
	c := models.Client{ID: uuid.New(), TenantID: tenantID, Name: data.Name, Phone: data.Phone, Email: data.Email}
	r.clients = append(r.clients, c)
	return &c, nil
}

func (r *memRepo) GetWorkingHours(_ context.Context, professionalID uuid.UUID, weekday int) (*models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.hours[professionalID][weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *memRepo) ListOccupying(_ context.Context, professionalID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	out := r.listOccupying(professionalID, start, end)

	r.mu.Lock()
	hook := r.afterOccupying
	r.afterOccupying = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *memRepo) listOccupying(professionalID uuid.UUID, start, end time.Time) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occupyingCalls++

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID || !domain.Status(ap.Status).IsOccupying() {
			continue
		}
		if ap.StartTime.Before(end) && start.Before(ap.EndTime) {
			out = append(out, ap)
		}
	}
	return out
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == id && ap.TenantID == tenantID {
			ap := ap
			return &ap, nil
		}
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			r.appointments[i] = *ap
			return nil
		}
	}
	return httperr.ErrNotFound("appointment_not_found")
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, f domain.PeriodFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TenantID != f.TenantID {
			continue
		}
		if f.ProfessionalID != nil && ap.ProfessionalID != *f.ProfessionalID {
			continue
		}
		if ap.StartTime.Before(f.Start) || !ap.StartTime.Before(f.End) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) WithProfessionalLock(_ context.Context, professionalID uuid.UUID, fn func(tx domain.Repository) error) error {
	l, _ := r.locks.LoadOrStore(professionalID, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(r)
}

func (r *memRepo) byID(id uuid.UUID) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == id {
			return ap
		}
	}
	return models.Appointment{}
}

// memCache is a map-backed AvailabilityCache with per-professional versions.
type memCache struct {
	mu       sync.Mutex
	versions map[uuid.UUID]int64
	entries  map[memCacheKey][]domain.Slot
}

type memCacheKey struct {
	key     domain.CacheKey
	version int64
}

func newMemCache() *memCache {
	return &memCache{
		versions: map[uuid.UUID]int64{},
		entries:  map[memCacheKey][]domain.Slot{},
	}
}

func (c *memCache) Get(_ context.Context, key domain.CacheKey) ([]domain.Slot, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.versions[key.ProfessionalID]
	s, ok := c.entries[memCacheKey{key, v}]
	return s, v, ok, nil
}

func (c *memCache) Set(_ context.Context, key domain.CacheKey, version int64, slots []domain.Slot, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memCacheKey{key, version}] = slots
	return nil
}

func (c *memCache) Invalidate(_ context.Context, professionalID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[professionalID]++
	return nil
}
