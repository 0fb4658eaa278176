package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// fakeRepo serves one tenant with one professional and one service.
type fakeRepo struct {
	mu   sync.Mutex
	lock sync.Mutex

	tenant  models.Tenant
	pro     models.Professional
	service models.Service
	hours   map[int]models.WorkingHours

	clients      []models.Client
	appointments []models.Appointment

	// widens the window between reading the session and booking
	tenantDelay time.Duration
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetTenantByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	time.Sleep(r.tenantDelay)
	if id != r.tenant.ID {
		return nil, httperr.ErrNotFound("tenant_not_found")
	}
	t := r.tenant
	return &t, nil
}

func (r *fakeRepo) GetProfessional(_ context.Context, tenantID, id uuid.UUID) (*models.Professional, error) {
	if tenantID != r.tenant.ID || id != r.pro.ID {
		return nil, httperr.ErrNotFound("professional_not_found")
	}
	p := r.pro
	return &p, nil
}

func (r *fakeRepo) GetService(_ context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	if tenantID != r.tenant.ID || id != r.service.ID {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	s := r.service
	return &s, nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, tenantID uuid.UUID, data domain.ClientData) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if c.TenantID == tenantID && c.Phone == data.Phone {
			return &c, nil
		}
	}
	c := models.Client{ID: uuid.New(), TenantID: tenantID, Name: data.Name, Phone: data.Phone, Email: data.Email}
	r.clients = append(r.clients, c)
	return &c, nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, professionalID uuid.UUID, weekday int) (*models.WorkingHours, error) {
	wh, ok := r.hours[weekday]
	if !ok || professionalID != r.pro.ID {
		return nil, nil
	}
	return &wh, nil
}

func (r *fakeRepo) ListOccupying(_ context.Context, professionalID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID || !domain.Status(ap.Status).IsOccupying() {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.ID == id && ap.TenantID == tenantID {
			return &ap, nil
		}
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
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

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, f domain.PeriodFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TenantID != f.TenantID || ap.StartTime.Before(f.Start) || !ap.StartTime.Before(f.End) {
			continue
		}
		if f.ProfessionalID != nil && ap.ProfessionalID != *f.ProfessionalID {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *fakeRepo) WithProfessionalLock(_ context.Context, _ uuid.UUID, fn func(tx domain.Repository) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return fn(r)
}
