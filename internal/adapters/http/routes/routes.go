package routes

import (
	"fmt"
	"log"
	"log/slog"

	"loanflow/internal/adapters/http/handlers"
	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/config"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies holds the wired application services
type Dependencies struct {
	Config      *config.Config
	Repo        repositories.LoanRepository
	LoanService *services.LoanService
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
}

// BuildDependencies selects loan storage, loads role policies and wires the workflow.
// db may be nil when the memory driver is configured.
func BuildDependencies(cfg *config.Config, db *gorm.DB, logger *slog.Logger, reg *prometheus.Registry) (*Dependencies, error) {
	// Initialize repository
	var repo repositories.LoanRepository
	switch cfg.StorageDriver {
	case config.StorageMySQL:
		if db == nil {
			return nil, fmt.Errorf("storage driver %q requires a database connection", cfg.StorageDriver)
		}
		repo = repositories.NewLoanRepository(db)
	default:
		repo = repositories.NewMemoryLoanRepository()
	}

	// Role policies (defaults merged with optional policy file)
	overrides, err := config.LoadPolicies(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		log.Printf("🔐 Loaded %d policy override(s) from %s", len(overrides), cfg.PolicyFile)
	}
	authz := services.NewAuthorizer(overrides)

	// Initialize services
	loanService := services.NewLoanService(repo, authz, metrics.New(reg), logger, nil)

	return &Dependencies{
		Config:      cfg,
		Repo:        repo,
		LoanService: loanService,
		Gatherer:    reg,
		Logger:      logger,
	}, nil
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps *Dependencies) {
	cfg := deps.Config

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, deps.LoanService)
	loanHandler := handlers.NewLoanHandler(deps.LoanService, deps.Logger)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, loanHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	loanHandler *handlers.LoanHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Loan routes (Authenticated; role checks happen in the workflow)
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Use(middleware.NoCacheHeaders())
	setupLoanRoutes(loanRoutes, loanHandler)
}

// setupLoanRoutes configures loan workflow routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)

	// Applicant can view their own loans (registered before /:id)
	router.Get("/my", handler.ListMine)

	router.Get("/:id", handler.Get)
	router.Put("/:id/review", handler.Review)
	router.Put("/:id/approve", handler.Decide)
}
