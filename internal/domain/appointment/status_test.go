package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusInProgress, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, "invalid_state"))
		})
	}
}

func TestOccupyingStatuses(t *testing.T) {
	assert.True(t, StatusScheduled.IsOccupying())
	assert.True(t, StatusConfirmed.IsOccupying())
	assert.True(t, StatusInProgress.IsOccupying())
	assert.False(t, StatusCancelled.IsOccupying())
	assert.False(t, StatusNoShow.IsOccupying())
	assert.True(t, StatusRescheduled.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.Len(t, OccupyingStatuses(), 3)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("DONE")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2031, 3, 10, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	require.NoError(t, Transition(ap, StatusConfirmed, now, ""))
	require.NotNil(t, ap.ConfirmedAt)

	require.NoError(t, Transition(ap, StatusCancelled, now, "client asked"))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, "client asked", ap.CancellationReason)
	require.NotNil(t, ap.CancelledAt)

	assert.Error(t, Transition(ap, StatusCompleted, now, ""))
}
