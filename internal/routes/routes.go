package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/wizard"
)

// Deps are the process singletons built in main. Cache may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Cache    domain.AvailabilityCache
	Registry *prometheus.Registry
	Metrics  *metrics.SchedulerMetrics
	Audit    *audit.Dispatcher
	Resolver *tenancy.Resolver
	Sessions *wizard.SessionStore[wizard.BookingData]
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	ucDeps := ucAppointment.Deps{
		Repo:     appointmentRepo,
		Audit:    d.Audit,
		Cache:    d.Cache,
		CacheTTL: d.Config.AvailabilityCacheTTL,
		Metrics:  d.Metrics,
		Log:      d.Log,
	}

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(ucDeps)
	createAppointmentUC := ucAppointment.NewCreateAppointment(ucDeps)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(ucDeps)
	updateStatusUC := ucAppointment.NewUpdateStatus(ucDeps)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	onboardingHandler := handlers.NewOnboardingHandler(d.DB, d.Config, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB)
	tenantHandler := handlers.NewTenantHandler(d.DB, d.Resolver, d.Cache, d.Audit)

	serviceHandler := handlers.NewServiceHandler(d.DB, d.Cache, d.Audit)
	professionalHandler := handlers.NewProfessionalHandler(d.DB, d.Cache, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Cache, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleUC,
		updateStatusUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	publicHandler := handlers.NewPublicHandler(
		d.DB,
		getAvailabilityUC,
		createAppointmentUC,
		d.Sessions,
	)

	// ======================================================
	// 🩺 INFRA ROUTES
	// ======================================================
	r.GET("/health", health(d.DB))
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		publicAPI.Use(
			middleware.RateLimitMiddleware(d.Config.PublicRateLimitPerMin),
			middleware.TenantFromSlug(d.Resolver),
		)
		{
			publicAPI.GET("", publicHandler.GetTenant)
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/professionals", publicHandler.ListProfessionals)
			publicAPI.POST("/available-slots", publicHandler.AvailableSlots)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)

			publicAPI.POST("/booking-sessions", publicHandler.StartBookingSession)
			publicAPI.POST("/booking-sessions/:id/next", publicHandler.NextBookingStep)
			publicAPI.POST("/booking-sessions/:id/back", publicHandler.BackBookingStep)
		}

		// ------------------------------
		// 🔐 AUTH + ONBOARDING
		// ------------------------------
		open := api.Group("")
		open.Use(middleware.RateLimitMiddleware(d.Config.PublicRateLimitPerMin))
		{
			open.POST("/auth/login", authHandler.Login)
			open.POST("/onboarding", onboardingHandler.Onboard)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(
			middleware.AuthMiddleware(d.Config),
			middleware.TenantFromClaims(d.Resolver),
		)
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/clients", clientHandler.List)

			secured.GET("/services", serviceHandler.List)
			secured.GET("/professionals", professionalHandler.List)
			secured.GET("/professionals/:id/working-hours", workingHoursHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// ------------------------------
			// ADMIN ONLY
			// ------------------------------
			admin := secured.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.GET("/tenant", tenantHandler.Get)
				admin.PATCH("/tenant", tenantHandler.Update)

				admin.POST("/services", serviceHandler.Create)
				admin.PATCH("/services/:id", serviceHandler.Update)

				admin.POST("/professionals", professionalHandler.Create)
				admin.PATCH("/professionals/:id", professionalHandler.Update)
				admin.PUT("/professionals/:id/working-hours", workingHoursHandler.Update)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
