package handlers

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
)

func writeAudit(
	d *audit.Dispatcher,
	tenantID uuid.UUID,
	userID *uuid.UUID,
	action string,
	entity string,
	entityID uuid.UUID,
	meta any,
) {
	d.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
