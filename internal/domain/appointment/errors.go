package appointment

import "github.com/BruksfildServices01/agenda-scheduler/internal/httperr"

var (
	errTimeConflict        = httperr.ErrConflict("time_conflict")
	errOutsideWorkingHours = httperr.ErrValidation("outside_working_hours")
)
