package handlers

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// wall clock layouts read in the tenant timezone
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// parseStartTime accepts an RFC 3339 instant or a wall clock time of the
// tenant ("2031-03-10 09:30").
func parseStartTime(t tenancy.Tenant, value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}

	var lastErr error
	for _, layout := range localLayouts {
		ts, err := time.ParseInLocation(layout, value, t.Location())
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func nowInTenant(t tenancy.Tenant) time.Time {
	return timezone.NowIn(t.Timezone)
}
