package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpilot/lead-distribution/internal/api/handler"
	"github.com/leadpilot/lead-distribution/internal/api/middleware"
	"github.com/leadpilot/lead-distribution/internal/core/service"
	"github.com/leadpilot/lead-distribution/internal/infrastructure/config"
	mongodb "github.com/leadpilot/lead-distribution/internal/infrastructure/db/mongo"
	redisdb "github.com/leadpilot/lead-distribution/internal/infrastructure/db/redis"
	"github.com/leadpilot/lead-distribution/web"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("leaddist"))

	// --- Dependencies ---
	adminRepo := mongodb.NewAdminRepository(db)
	agentRepo := mongodb.NewAgentRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	distStore := mongodb.NewDistributionStore(client, db)
	uploadLock := redisdb.NewUploadLock(rdb)

	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.TokenTTL, service.BootstrapCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	agentService := service.NewAgentService(agentRepo, customerRepo, distStore, log)
	distService := service.NewDistributionService(agentRepo, customerRepo, distStore, uploadLock, cfg.MaxAgentsPerUpload, log)

	authHandler := handler.NewAuthHandler(authService)
	agentHandler := handler.NewAgentHandler(agentService)
	customerHandler := handler.NewCustomerHandler(distService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/setup-admin", authHandler.SetupAdmin)

	// --- Agent routes (admin only) ---
	agents := e.Group("/agents", authMiddleware)
	agents.POST("", agentHandler.Create)
	agents.GET("", agentHandler.List)
	agents.DELETE("/:id", agentHandler.Delete)

	// --- Customer routes (admin only) ---
	customers := e.Group("/customers", authMiddleware)
	customers.POST("/upload", customerHandler.Upload)
	customers.GET("/distribution", customerHandler.Distribution)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Dashboard (embedded single-page UI) ---
	e.StaticFS("/", echo.MustSubFS(web.Static, "static"))

	return e
}
