package routes

import (
	"dwellhub/internal/adapters/http/handlers"
	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/config"
	"dwellhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	onboardingRepo := repositories.NewOnboardingStepRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	amenityRepo := repositories.NewAmenityRepository(db)
	unitRepo := repositories.NewUnitRepository(db)
	leaseRepo := repositories.NewLeaseRepository(db)
	assignmentRepo := repositories.NewBuildingAssignmentRepository(db)
	maintenanceRepo := repositories.NewMaintenanceRepository(db)
	maintenanceEventRepo := repositories.NewMaintenanceEventRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	bookingRepo := repositories.NewAmenityBookingRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	registrationRepo := repositories.NewEventRegistrationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	packageRepo := repositories.NewPackageRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(notificationRepo, assignmentRepo, userRepo, cfg)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, onboardingRepo, cfg)
	userService := services.NewUserService(userRepo, onboardingRepo)
	propertyService := services.NewPropertyService(propertyRepo, amenityRepo, unitRepo, userRepo)
	leaseService := services.NewLeaseService(leaseRepo, unitRepo, propertyRepo, userRepo, notifyService)
	assignmentService := services.NewAssignmentService(assignmentRepo, propertyRepo, userRepo)
	maintenanceService := services.NewMaintenanceService(
		maintenanceRepo,
		maintenanceEventRepo,
		unitRepo,
		propertyRepo,
		assignmentRepo,
		userRepo,
		notifyService,
	)
	paymentService := services.NewPaymentService(paymentRepo, leaseRepo, propertyRepo, userRepo, notifyService)
	bookingService := services.NewAmenityBookingService(bookingRepo, amenityRepo, propertyRepo, assignmentRepo, notifyService)
	eventService := services.NewEventService(eventRepo, registrationRepo, propertyRepo, assignmentRepo, notifyService)
	packageService := services.NewPackageService(packageRepo, propertyRepo, assignmentRepo, userRepo, notifyService)
	documentService := services.NewDocumentService(documentRepo, propertyRepo, cfg)
	dashboardService := services.NewDashboardService(propertyRepo, unitRepo, maintenanceRepo, paymentRepo, leaseRepo)
	chatService := services.NewChatService(assignmentRepo)
	cronService := services.NewCronService(bookingRepo, leaseRepo, refreshTokenRepo, leaseService, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, dashboardService)
	leaseHandler := handlers.NewLeaseHandler(leaseService, assignmentService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	eventHandler := handlers.NewEventHandler(eventService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	packageHandler := handlers.NewPackageHandler(packageService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	chatHandler := handlers.NewChatHandler(chatService, userService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)
	setupUserRoutes(apiV1, userHandler, cfg)
	setupPropertyRoutes(apiV1, propertyHandler, leaseHandler, maintenanceHandler,
		paymentHandler, bookingHandler, eventHandler, packageHandler, documentHandler, cfg)
	setupLeaseRoutes(apiV1, leaseHandler, cfg)
	setupMaintenanceRoutes(apiV1, maintenanceHandler, cfg)
	setupPaymentRoutes(apiV1, paymentHandler, cfg)
	setupBookingRoutes(apiV1, bookingHandler, cfg)
	setupEventRoutes(apiV1, eventHandler, cfg)
	setupNotificationRoutes(apiV1, notificationHandler, cfg)
	setupPackageRoutes(apiV1, packageHandler, cfg)
	setupDocumentRoutes(apiV1, documentHandler, cfg)
	setupChatRoutes(apiV1, chatHandler, cfg)

	dashboard := apiV1.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(cfg))
	dashboard.Get("/me", propertyHandler.MyDashboard)
	dashboard.Get("/admin", middleware.AdminOnly(), propertyHandler.AdminDashboard)

	return cronService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
	router.Post("/change-password", middleware.AuthMiddleware(cfg), handler.ChangePassword)
}

// setupUserRoutes configures profile, staff and onboarding routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, cfg *config.Config) {
	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	users.Patch("/me", handler.UpdateProfile)
	users.Post("/me/push-token", handler.RegisterPushToken)
	users.Delete("/me/push-token", handler.UnregisterPushToken)
	users.Post("/", middleware.AdminOnly(), handler.CreateStaff)
	users.Get("/", middleware.ManagerOrAdmin(), handler.List)
	users.Get("/:id", middleware.AdminOnly(), handler.Get)
	users.Patch("/:id/active", middleware.AdminOnly(), handler.SetActive)
	users.Patch("/:id/role", middleware.AdminOnly(), handler.SetRole)

	onboarding := router.Group("/onboarding")
	onboarding.Use(middleware.AuthMiddleware(cfg))
	onboarding.Get("/steps", handler.ListOnboardingSteps)
	onboarding.Post("/steps/:code/complete", handler.CompleteOnboardingStep)
}

// setupPropertyRoutes configures property-scoped routes, including the
// nested listing endpoints of the other domains
func setupPropertyRoutes(
	router fiber.Router,
	propertyHandler *handlers.PropertyHandler,
	leaseHandler *handlers.LeaseHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	paymentHandler *handlers.PaymentHandler,
	bookingHandler *handlers.BookingHandler,
	eventHandler *handlers.EventHandler,
	packageHandler *handlers.PackageHandler,
	documentHandler *handlers.DocumentHandler,
	cfg *config.Config,
) {
	properties := router.Group("/properties")
	properties.Use(middleware.AuthMiddleware(cfg))

	properties.Post("/", middleware.AdminOnly(), propertyHandler.Create)
	properties.Get("/", propertyHandler.List)
	properties.Get("/:id", propertyHandler.Get)
	properties.Patch("/:id", propertyHandler.Update)
	properties.Delete("/:id", middleware.AdminOnly(), propertyHandler.Delete)
	properties.Get("/:id/dashboard", middleware.ManagerOrAdmin(), propertyHandler.Dashboard)

	properties.Post("/:id/amenities", propertyHandler.CreateAmenity)
	properties.Get("/:id/amenities", propertyHandler.ListAmenities)
	properties.Post("/:id/units", propertyHandler.CreateUnit)
	properties.Get("/:id/units", propertyHandler.ListUnits)

	properties.Get("/:id/leases", leaseHandler.ListByProperty)
	properties.Get("/:id/assignments", leaseHandler.ListAssignmentsByProperty)
	properties.Get("/:id/maintenance", maintenanceHandler.ListByProperty)
	properties.Get("/:id/payments", paymentHandler.ListByProperty)
	properties.Get("/:id/bookings", bookingHandler.ListByProperty)
	properties.Get("/:id/events", eventHandler.ListByProperty)
	properties.Get("/:id/packages", middleware.StaffOnly(), packageHandler.ListByProperty)
	properties.Get("/:id/documents", documentHandler.ListByProperty)

	units := router.Group("/units")
	units.Use(middleware.AuthMiddleware(cfg))
	units.Post("/:id/assign", middleware.ManagerOrAdmin(), propertyHandler.AssignTenant)
	units.Post("/:id/release", middleware.ManagerOrAdmin(), propertyHandler.ReleaseUnit)
	units.Patch("/:id/status", middleware.ManagerOrAdmin(), propertyHandler.SetUnitStatus)
}

// setupLeaseRoutes configures lease and building assignment routes
func setupLeaseRoutes(router fiber.Router, handler *handlers.LeaseHandler, cfg *config.Config) {
	leases := router.Group("/leases")
	leases.Use(middleware.AuthMiddleware(cfg))
	leases.Post("/", middleware.ManagerOrAdmin(), handler.Create)
	leases.Get("/me", handler.ListMine)
	leases.Get("/:id", handler.Get)
	leases.Post("/:id/terminate", middleware.ManagerOrAdmin(), handler.Terminate)

	assignments := router.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware(cfg))
	assignments.Post("/", middleware.ManagerOrAdmin(), handler.CreateAssignment)
	assignments.Get("/me", handler.ListMyAssignments)
	assignments.Post("/:id/end", middleware.ManagerOrAdmin(), handler.EndAssignment)
}

// setupMaintenanceRoutes configures maintenance ticket routes
func setupMaintenanceRoutes(router fiber.Router, handler *handlers.MaintenanceHandler, cfg *config.Config) {
	maintenance := router.Group("/maintenance")
	maintenance.Use(middleware.AuthMiddleware(cfg))
	maintenance.Post("/", handler.Create)
	maintenance.Get("/me", handler.ListMine)
	maintenance.Get("/:id", handler.Get)
	maintenance.Get("/:id/history", handler.History)
	maintenance.Post("/:id/assign", middleware.ManagerOrAdmin(), handler.Assign)
	maintenance.Patch("/:id/status", middleware.StaffOnly(), handler.UpdateStatus)
	maintenance.Post("/:id/complete", middleware.StaffOnly(), handler.Complete)
	maintenance.Post("/:id/cancel", handler.Cancel)
}

// setupPaymentRoutes configures payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler, cfg *config.Config) {
	payments := router.Group("/payments")
	payments.Use(middleware.AuthMiddleware(cfg))
	payments.Post("/", middleware.ManagerOrAdmin(), handler.Create)
	payments.Get("/me", handler.ListMine)
	payments.Get("/me/next", handler.NextPending)
	payments.Get("/:id", handler.Get)
	payments.Post("/:id/pay", handler.Pay)
	payments.Patch("/:id/status", middleware.ManagerOrAdmin(), handler.UpdateStatus)
}

// setupBookingRoutes configures amenity booking routes
func setupBookingRoutes(router fiber.Router, handler *handlers.BookingHandler, cfg *config.Config) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(cfg))
	bookings.Post("/", handler.Create)
	bookings.Get("/me", handler.ListMine)
	bookings.Get("/:id", handler.Get)
	bookings.Post("/:id/approve", middleware.ManagerOrAdmin(), handler.Approve)
	bookings.Post("/:id/reject", middleware.ManagerOrAdmin(), handler.Reject)
	bookings.Post("/:id/cancel", handler.Cancel)
}

// setupEventRoutes configures community event routes
func setupEventRoutes(router fiber.Router, handler *handlers.EventHandler, cfg *config.Config) {
	events := router.Group("/events")
	events.Use(middleware.AuthMiddleware(cfg))
	events.Post("/", middleware.StaffOnly(), handler.Create)
	events.Get("/:id", handler.Get)
	events.Delete("/:id", middleware.StaffOnly(), handler.Delete)
	events.Post("/:id/register", handler.Register)
	events.Delete("/:id/register", handler.CancelRegistration)
	events.Get("/:id/attendees", handler.ListAttendees)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler, cfg *config.Config) {
	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(cfg))
	notifications.Get("/", handler.List)
	notifications.Get("/unread-count", handler.UnreadCount)
	notifications.Post("/read-all", handler.MarkAllRead)
	notifications.Post("/announce", middleware.StaffOnly(), handler.Announce)
	notifications.Post("/:id/read", handler.MarkRead)
	notifications.Post("/:id/archive", handler.Archive)
}

// setupPackageRoutes configures front-desk package routes
func setupPackageRoutes(router fiber.Router, handler *handlers.PackageHandler, cfg *config.Config) {
	packages := router.Group("/packages")
	packages.Use(middleware.AuthMiddleware(cfg))
	packages.Post("/", middleware.StaffOnly(), handler.Log)
	packages.Get("/me", handler.ListMine)
	packages.Post("/:id/pickup", handler.MarkPickedUp)
}

// setupDocumentRoutes configures document routes
func setupDocumentRoutes(router fiber.Router, handler *handlers.DocumentHandler, cfg *config.Config) {
	documents := router.Group("/documents")
	documents.Use(middleware.AuthMiddleware(cfg))
	documents.Post("/", middleware.UploadRateLimiter(), handler.Upload)
	documents.Get("/me", handler.ListMine)
	documents.Get("/:id", handler.Get)
	documents.Get("/:id/download", handler.Download)
	documents.Delete("/:id", handler.Delete)
}

// setupChatRoutes configures the building chat websocket route
func setupChatRoutes(router fiber.Router, handler *handlers.ChatHandler, cfg *config.Config) {
	chat := router.Group("/chat")
	chat.Use(middleware.AuthMiddleware(cfg))
	chat.Use("/rooms/:id", handler.Upgrade)
	chat.Get("/rooms/:id", handler.Room())
}
