package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type GetAvailability struct {
	Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{Deps: deps}
}

// Execute computes every candidate slot of the day for the professional and
// service. The list is ordered by start and includes unavailable entries.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.Slot, error) {

	// --------------------------------------------------
	// 1️⃣ Tenant + dia no timezone do tenant
	// --------------------------------------------------
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	tenant, err := uc.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(tenant.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	// --------------------------------------------------
	// 2️⃣ Profissional + serviço ativos
	// --------------------------------------------------
	pro, svc, err := loadCatalog(ctx, uc.Repo, in.TenantID, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	now := uc.now().In(day.Location())
	rules := domain.RulesFor(tenant, pro, svc, now)

	// --------------------------------------------------
	// 3️⃣ Cache (só dias inteiramente após o lead time)
	// --------------------------------------------------
	key := domain.CacheKey{
		TenantID:       in.TenantID,
		ProfessionalID: pro.ID,
		ServiceID:      svc.ID,
		Date:           day.Format("2006-01-02"),
	}
	cacheable := uc.Cache != nil && !day.Before(rules.EarliestStart)

	var version int64
	if cacheable {
		slots, v, ok, err := uc.Cache.Get(ctx, key)
		version = v
		if err != nil {
			uc.logger().Warn("availability cache read failed", zap.Error(err))
			cacheable = false
		} else if ok {
			uc.Metrics.ObserveAvailability("hit")
			return slots, nil
		}
	}

	// --------------------------------------------------
	// 4️⃣ Expediente do dia (dia fechado → lista vazia)
	// --------------------------------------------------
	working, err := workingIntervalsOn(ctx, uc.Repo, pro.ID, day)
	if err != nil {
		return nil, err
	}

	slots := []domain.Slot{}
	if len(working) > 0 {
		// --------------------------------------------------
		// 5️⃣ Agendamentos que ocupam o expediente
		// --------------------------------------------------
		aps, err := uc.Repo.ListOccupying(
			ctx,
			pro.ID,
			working[0].Start,
			working[len(working)-1].End,
		)
		if err != nil {
			return nil, err
		}

		// --------------------------------------------------
		// 6️⃣ Motor de slots
		// --------------------------------------------------
		slots = domain.GenerateSlots(working, domain.OccupiedIntervals(aps), rules)
	}

	if !cacheable {
		uc.Metrics.ObserveAvailability("off")
		return slots, nil
	}

	uc.Metrics.ObserveAvailability("miss")
	if err := uc.Cache.Set(ctx, key, version, slots, uc.CacheTTL); err != nil {
		uc.logger().Warn("availability cache write failed", zap.Error(err))
	}

	return slots, nil
}
