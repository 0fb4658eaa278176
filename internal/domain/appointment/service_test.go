package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func TestValidateService(t *testing.T) {
	tests := []struct {
		name string
		svc  models.Service
		code string
	}{
		{"ok", models.Service{DurationMin: 30, BufferAfterMin: 10, MaxConcurrent: 1}, ""},
		{"full day", models.Service{DurationMin: 1440}, ""},
		{"zero duration", models.Service{DurationMin: 0}, "invalid_duration"},
		{"too long", models.Service{DurationMin: 1441}, "invalid_duration"},
		{"negative buffer", models.Service{DurationMin: 30, BufferBeforeMin: -5}, "invalid_buffer"},
		{"buffer too long", models.Service{DurationMin: 30, BufferAfterMin: 241}, "invalid_buffer"},
		{"negative capacity", models.Service{DurationMin: 30, MaxConcurrent: -1}, "invalid_capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateService(&tt.svc)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}
