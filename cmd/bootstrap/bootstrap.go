package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echanneling/echanneling/config"
	deliveryHttp "github.com/echanneling/echanneling/internal/delivery/http"
	"github.com/echanneling/echanneling/internal/delivery/http/handler"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/internal/infrastructure/cache"
	"github.com/echanneling/echanneling/internal/infrastructure/database"
	"github.com/echanneling/echanneling/internal/repository"
	"github.com/echanneling/echanneling/internal/service"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/jwt"
	"github.com/echanneling/echanneling/pkg/mailer"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	RedisClient    *redis.Client
	EventPublisher *service.EventPublisher
	Server         *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize event publisher (runs degraded when the bus is down)
	app.EventPublisher = service.NewEventPublisher(cfg.NATS, logrus.StandardLogger())

	// Initialize all layers
	server, slotCache := initializeServer(cfg, db, redisClient, app.EventPublisher)
	app.Server = server

	// Warm the slot cache so availability reads do not stampede the database
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := slotCache.SyncOnStartup(syncCtx); err != nil {
		logrus.Warnf("Slot cache warmup failed, continuing with lazy fills: %v", err)
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	eventPublisher *service.EventPublisher,
) (*http.Server, *service.SlotCacheService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	hospitalRepo := repository.NewHospitalRepository()
	doctorRepo := repository.NewDoctorRepository()
	nurseRepo := repository.NewNurseRepository()
	cashierRepo := repository.NewCashierRepository()
	specializationRepo := repository.NewSpecializationRepository()
	sessionRepo := repository.NewSessionRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	slotCache := service.NewSlotCacheService(db, redisClient, log)
	notifier := service.NewNotificationService(mailer.New(cfg.SMTP), eventPublisher, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, redisClient, auditService)
	hospitalUsecase := usecase.NewHospitalUsecase(db, log, hospitalRepo, userRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, hospitalRepo, userRepo, notifier, auditService)
	staffUsecase := usecase.NewStaffUsecase(db, log, nurseRepo, cashierRepo, hospitalRepo, notifier, auditService)
	sessionUsecase := usecase.NewSessionUsecase(db, log, sessionRepo, doctorRepo, hospitalRepo, slotCache, notifier, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, sessionRepo, prescriptionRepo, slotCache, notifier, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, appointmentRepo, doctorRepo, auditService)
	invoiceUsecase := usecase.NewInvoiceUsecase(db, log, invoiceRepo, appointmentRepo, notifier, auditService)
	specializationUsecase := usecase.NewSpecializationUsecase(db, log, specializationRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, hospitalRepo, doctorRepo, nurseRepo, cashierRepo, userRepo, sessionRepo, appointmentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	hospitalHandler := handler.NewHospitalHandler(hospitalUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	staffHandler := handler.NewStaffHandler(staffUsecase, customValidator)
	sessionHandler := handler.NewSessionHandler(sessionUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	invoiceHandler := handler.NewInvoiceHandler(invoiceUsecase, customValidator)
	specializationHandler := handler.NewSpecializationHandler(specializationUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 50,
		Burst:             100,
	})

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		hospitalHandler,
		doctorHandler,
		staffHandler,
		sessionHandler,
		appointmentHandler,
		prescriptionHandler,
		invoiceHandler,
		specializationHandler,
		auditLogHandler,
		dashboardHandler,
		authMiddleware,
		corsMiddleware,
		rateLimitMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, slotCache
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, event bus)
func (app *App) Close() {
	if app.EventPublisher != nil {
		app.EventPublisher.Close()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
