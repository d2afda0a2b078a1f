package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/config"
	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/export"
	"github.com/Seimmet/dolcie-salon/internal/handlers"
	"github.com/Seimmet/dolcie-salon/internal/infra/cache"
	infraRepo "github.com/Seimmet/dolcie-salon/internal/infra/repository"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	"github.com/Seimmet/dolcie-salon/internal/notification"
	"github.com/Seimmet/dolcie-salon/internal/payment"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
	ucBooking "github.com/Seimmet/dolcie-salon/internal/usecase/booking"
	"github.com/Seimmet/dolcie-salon/internal/validators"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Cache    *cache.AvailabilityCache
	Gateway  payment.Gateway
	Audit    *audit.Dispatcher
	Notifier *notification.Dispatcher
	Archiver *export.S3Archiver
	Clock    timezone.Clock
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	catalogRepo := infraRepo.NewCatalogGormRepository(d.DB)
	settingsRepo := infraRepo.NewSettingsGormRepository(d.DB)

	resolver := capability.NewResolver(catalogRepo)
	engine := availability.NewEngine(resolver, bookingRepo, d.Clock)
	coordinator := payment.NewCoordinator(d.Gateway, d.Config.PaymentTimeout, d.Log)
	contacts := validators.NewContactChecker(d.Config.ValidateEmailDomains)

	var archiver ucBooking.Archiver
	if d.Archiver != nil {
		archiver = d.Archiver
	}

	// ======================================================
	// USE CASES
	// ======================================================
	bookingUC := handlers.BookingUseCases{
		Availability:  ucBooking.NewGetAvailability(settingsRepo, engine, d.Cache, d.Metrics),
		DepositIntent: ucBooking.NewCreateDepositIntent(settingsRepo, engine, coordinator),
		Reserve: ucBooking.NewReserveBooking(ucBooking.ReserveBookingDeps{
			Repo:     bookingRepo,
			Settings: settingsRepo,
			Resolver: resolver,
			Engine:   engine,
			Payments: coordinator,
			Contacts: contacts,
			Cache:    d.Cache,
			Notifier: d.Notifier,
			Audit:    d.Audit,
			Metrics:  d.Metrics,
			Log:      d.Log,
			Now:      d.Clock,
		}),
		Reschedule:   ucBooking.NewRescheduleBooking(bookingRepo, settingsRepo, engine, d.Cache, d.Notifier, d.Audit, d.Log),
		UpdateStatus: ucBooking.NewUpdateStatus(bookingRepo, settingsRepo, d.Cache, d.Notifier, d.Audit, d.Metrics, d.Clock),
		Assign:       ucBooking.NewAssignStylist(bookingRepo, resolver, d.Cache, d.Audit),
		CheckIn:      ucBooking.NewCheckInBooking(bookingRepo, settingsRepo, d.Audit, d.Clock),
		AddPayment:   ucBooking.NewAddPayment(bookingRepo, coordinator, d.Audit, d.Metrics, d.Clock),
		Get:          ucBooking.NewGetBooking(bookingRepo),
		List:         ucBooking.NewListBookings(bookingRepo),
	}
	exportUC := ucBooking.NewExportBookings(bookingRepo, settingsRepo, archiver, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(bookingUC)
	catalogHandler := handlers.NewCatalogHandler(d.DB, d.Cache, d.Audit)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, d.Cache, d.Audit)
	hoursHandler := handlers.NewBusinessHoursHandler(settingsRepo, d.Cache, d.Audit)
	customerHandler := handlers.NewCustomerHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	exportHandler := handlers.NewExportHandler(exportUC)
	meHandler := handlers.NewMeHandler(d.DB)

	limiter := middleware.NewRateLimiter(d.Config.RateLimitPerMin, d.Log)
	secret := d.Config.JWTSecret

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// Public, guests allowed
		// ------------------------------
		public := api.Group("/")
		public.Use(limiter.Middleware(), middleware.OptionalAuth(secret))
		{
			public.GET("/catalog", catalogHandler.Public)
			public.GET("/availability", bookingHandler.Availability)
			public.POST("/payments/deposit-intent", bookingHandler.CreateDepositIntent)
			public.POST("/bookings", bookingHandler.Create)
			public.POST("/bookings/:id/check-in", bookingHandler.CheckIn)
		}

		// ------------------------------
		// Signed in
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(secret))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id", bookingHandler.Patch)
			secured.POST("/bookings/:id/payments", bookingHandler.AddPayment)
		}

		// ------------------------------
		// Admin
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(secret), middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/settings", settingsHandler.Get)
			admin.PATCH("/settings", settingsHandler.Update)

			admin.GET("/business-hours", hoursHandler.Get)
			admin.PUT("/business-hours", hoursHandler.Update)

			admin.POST("/styles", catalogHandler.CreateStyle)
			admin.PATCH("/styles/:id", catalogHandler.UpdateStyle)
			admin.GET("/pricing", catalogHandler.ListPricing)
			admin.POST("/pricing", catalogHandler.CreatePricing)
			admin.PATCH("/pricing/:id", catalogHandler.UpdatePricing)

			admin.GET("/stylists", catalogHandler.ListStylists)
			admin.POST("/stylists", catalogHandler.CreateStylist)
			admin.PATCH("/stylists/:id", catalogHandler.UpdateStylist)
			admin.GET("/variations", catalogHandler.ListVariations)
			admin.POST("/variations", catalogHandler.CreateVariation)
			admin.PATCH("/variations/:id", catalogHandler.UpdateVariation)
			admin.GET("/promos", catalogHandler.ListPromos)
			admin.POST("/promos", catalogHandler.CreatePromo)
			admin.PATCH("/promos/:id", catalogHandler.UpdatePromo)

			admin.GET("/customers", customerHandler.List)
			admin.GET("/audit-logs", auditLogsHandler.List)
			admin.GET("/bookings/export", exportHandler.Bookings)
		}
	}
}
