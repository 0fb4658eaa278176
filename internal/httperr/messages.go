package httperr

var messages = map[string]string{
	"tenant_not_found":       "Tenant not found.",
	"professional_not_found": "Professional not found.",
	"service_not_found":      "Service not found.",
	"appointment_not_found":  "Appointment not found.",
	"client_not_found":       "Client not found.",
	"session_not_found":      "Booking session not found.",
	"time_conflict":          "The selected time is no longer available.",
	"invalid_state":          "Appointment cannot move to that status.",
	"slug_already_exists":    "Slug already in use.",
	"email_already_exists":   "E-mail already in use.",
	"invalid_date":           "Invalid date.",
	"invalid_date_or_time":   "Invalid date or time.",
	"invalid_duration":       "Service duration out of range.",
	"invalid_buffer":         "Service buffer out of range.",
	"invalid_working_hours":  "Invalid working hours.",
	"invalid_timezone":       "Invalid timezone.",
	"invalid_status":         "Invalid status.",
	"invalid_step":           "Step cannot be completed.",
	"too_soon":               "The selected time is inside the minimum lead time.",
	"outside_working_hours":  "Outside working hours.",
	"missing_client":         "Client data is required.",
	"invalid_capacity":       "Service capacity must be positive.",
	"invalid_month":          "Invalid month.",
	"invalid_credentials":    "Invalid e-mail or password.",
	"invalid_email":          "Invalid e-mail.",
	"invalid_request":        "Invalid request.",
	"use_reschedule":         "Use the reschedule endpoint to move an appointment.",
	"rate_limited":           "Too many requests.",
	"unauthorized":           "Authentication required.",
	"forbidden":              "Not allowed.",
	"invalid_slug":           "Slug must use lowercase letters, digits and dashes.",
	"weak_password":          "Password must have at least 8 characters.",
	"missing_service":        "Choose a service.",
	"missing_professional":   "Choose a professional.",
	"missing_services":       "Add at least one service.",
	"missing_professionals":  "Add at least one professional.",
	"missing_schedule":       "Open at least one weekday.",
}

// Message returns the user facing text of a business code.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
