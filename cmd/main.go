package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"studio-service/internal/claims"
	"studio-service/internal/handler"
	"studio-service/internal/identity"
	"studio-service/internal/lifecycle"
	"studio-service/internal/middleware"
	"studio-service/internal/provision"
	"studio-service/internal/purge"
	"studio-service/internal/seed"
	"studio-service/pkg/config"
	"studio-service/pkg/database"
	"studio-service/pkg/jwtutil"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting studio service...", cfg.LogConfig()...)

	// One store handle for the whole process, injected into every component
	db, err := database.Initialize(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	jwtUtil := jwtutil.New(&cfg.JWT)

	// Wire the lifecycle components
	idp := identity.NewProvider(db, log)
	claimsManager := claims.NewManager(db, log)
	seeder := seed.NewSeeder(db, log)
	provisioner := provision.NewProvisioner(idp, claimsManager, seeder, log)
	engine := purge.NewEngine(db, cfg.Provision.PurgeBatchSize, log)
	controller := lifecycle.NewController(db, idp, engine, log)
	studioHandler := handler.NewStudioHandler(provisioner, controller)

	// Bootstrap the operator account on a fresh deployment
	if err := idp.EnsureSuperAdmin(cfg.Provision.SuperAdminEmail, cfg.Provision.SuperAdminPassword); err != nil {
		log.Fatal("Failed to bootstrap super-admin account", zap.Error(err))
	}

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.Metrics)

	// Privileged lifecycle operations - authenticated, authorized inside the services
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(jwtUtil))
	admin.POST("/studios", studioHandler.CreateStudio)
	admin.POST("/studios/manage", studioHandler.ManageStudio)
	admin.GET("/studios", studioHandler.ListStudios)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
