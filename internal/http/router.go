package http

import (
	"context"
	"log/slog"

	"github.com/eliteprep/eliteprep-api/internal/coach"
	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/http/handlers"
	"github.com/eliteprep/eliteprep-api/internal/http/middlewares"
	"github.com/eliteprep/eliteprep-api/internal/observability"
	"github.com/eliteprep/eliteprep-api/internal/security"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UserStore is what every store driver (postgres, mongodb, memory) provides.
type UserStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ReplaceOnboarding(ctx context.Context, email string, data onboarding.Data) (bool, error)
	AppendTrend(ctx context.Context, email string, e trend.Entry) (bool, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Store    UserStore
	Verifier security.CredentialVerifier
	Prom     *observability.Prom

	// optional
	Cache handlers.AveragesCache
	Coach coach.Coach
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.Verifier == nil {
		deps.Verifier = security.PlainVerifier{}
	}
	if deps.Prom == nil {
		deps.Prom = observability.NewProm()
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(deps.Prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health, docs and metrics
	h := handlers.NewHealthHandler(deps.Store.Ping)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(deps.Prom.Handler()))
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(deps.Store, deps.Store, deps.Verifier, log)
	onboardingHandler := handlers.NewOnboardingHandler(deps.Store, log)
	trendsHandler := handlers.NewTrendsHandler(deps.Store, deps.Cache, deps.Prom, log)
	insightsHandler := handlers.NewInsightsHandler(trendsHandler, deps.Store, deps.Coach, log)

	writes := r.Group("/")
	writes.Use(middlewares.RequireJSON())
	{
		writes.POST("/register", authHandler.Register)
		writes.POST("/login", authHandler.Login)
		writes.POST("/onboarding", onboardingHandler.Update)
		writes.POST("/performance-trends", trendsHandler.Submit)
	}

	r.GET("/performance-averages/:email", trendsHandler.Averages)
	r.GET("/performance-insights/:email", insightsHandler.Get)

	return r
}
