package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/foundrylabs/venturedash/internal/activity"
	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/dashboard"
	dashboarddomain "github.com/foundrylabs/venturedash/internal/dashboard/domain"
	"github.com/foundrylabs/venturedash/internal/observability"
	obslogger "github.com/foundrylabs/venturedash/internal/observability/logger"
	obsmetrics "github.com/foundrylabs/venturedash/internal/observability/metrics"
	obstracing "github.com/foundrylabs/venturedash/internal/observability/tracing"
	"github.com/foundrylabs/venturedash/internal/plan"
	"github.com/foundrylabs/venturedash/internal/portfolio"
	portfoliodomain "github.com/foundrylabs/venturedash/internal/portfolio/domain"
	"github.com/foundrylabs/venturedash/internal/price"
	"github.com/foundrylabs/venturedash/internal/ratelimit"
	"github.com/foundrylabs/venturedash/internal/revenue"
	"github.com/foundrylabs/venturedash/internal/signup"
	"github.com/foundrylabs/venturedash/internal/snapshot"
	"github.com/foundrylabs/venturedash/internal/stripegateway"
	"github.com/foundrylabs/venturedash/internal/stripesync"
	syncdomain "github.com/foundrylabs/venturedash/internal/stripesync/domain"
	"github.com/foundrylabs/venturedash/internal/stripewebhook"
	webhookdomain "github.com/foundrylabs/venturedash/internal/stripewebhook/domain"
	"github.com/foundrylabs/venturedash/internal/subscription"
	"github.com/foundrylabs/venturedash/internal/tracking"
	trackingdomain "github.com/foundrylabs/venturedash/internal/tracking/domain"
	"github.com/foundrylabs/venturedash/internal/venture"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	venture.Module,
	signup.Module,
	plan.Module,
	price.Module,
	subscription.Module,
	revenue.Module,
	activity.Module,
	stripegateway.Module,
	snapshot.Module,
	tracking.Module,
	stripewebhook.Module,
	stripesync.Module,
	dashboard.Module,
	portfolio.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	clock        clock.Clock
	limiter      *ratelimit.TokenBucket
	portfolioCfg *config.PortfolioConfigHolder

	ventureSvc   venturedomain.Service
	trackingSvc  trackingdomain.Service
	webhookSvc   webhookdomain.Service
	syncSvc      syncdomain.Service
	dashboardSvc dashboarddomain.Service
	portfolioSvc portfoliodomain.Service
	activitySvc  activitydomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Clock        clock.Clock
	Limiter      *ratelimit.TokenBucket `optional:"true"`
	PortfolioCfg *config.PortfolioConfigHolder

	VentureSvc   venturedomain.Service
	TrackingSvc  trackingdomain.Service
	WebhookSvc   webhookdomain.Service
	SyncSvc      syncdomain.Service
	DashboardSvc dashboarddomain.Service
	PortfolioSvc portfoliodomain.Service
	ActivitySvc  activitydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		clock:        p.Clock,
		limiter:      p.Limiter,
		portfolioCfg: p.PortfolioCfg,
		ventureSvc:   p.VentureSvc,
		trackingSvc:  p.TrackingSvc,
		webhookSvc:   p.WebhookSvc,
		syncSvc:      p.SyncSvc,
		dashboardSvc: p.DashboardSvc,
		portfolioSvc: p.PortfolioSvc,
		activitySvc:  p.ActivitySvc,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.handleLogin)
	auth.GET("/me", s.AuthRequired(), s.handleMe)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())

	// -------- Ventures --------
	admin.GET("/ventures", s.handleListVentures)
	admin.POST("/ventures", s.handleCreateVenture)
	admin.GET("/ventures/:id", s.handleGetVenture)
	admin.PATCH("/ventures/:id", s.handleUpdateVenture)

	// -------- Stripe integration --------
	admin.PUT("/ventures/:id/stripe/keys", s.handleSaveStripeKeys)
	admin.DELETE("/ventures/:id/stripe/keys", s.handleClearStripeKeys)
	admin.GET("/ventures/:id/stripe/status", s.handleStripeStatus)
	admin.POST("/ventures/:id/stripe/sync", s.handleSyncVenture)
	admin.POST("/sync", s.handleSyncAll)

	// -------- Metrics --------
	admin.GET("/ventures/:id/metrics", s.handleVentureMetrics)
	admin.GET("/ventures/:id/activity", s.handleVentureActivity)
	admin.GET("/portfolio", s.handlePortfolio)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/api")

	// Venture sites post events with the shared tracking key.
	public.POST("/track", s.TrackingKeyRequired(), s.TrackingRateLimit(), s.handleTrack)

	// Stripe signs its own deliveries, so no key gate here.
	public.POST("/stripe/webhook", s.handleStripeWebhook)
}
