package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/slutstation/slutstation-web/api/swagger"
	"github.com/slutstation/slutstation-web/internal/handler"
	internalmiddleware "github.com/slutstation/slutstation-web/internal/middleware"
	"github.com/slutstation/slutstation-web/internal/repository"
	"github.com/slutstation/slutstation-web/internal/service"
	"github.com/slutstation/slutstation-web/pkg/cache"
	"github.com/slutstation/slutstation-web/pkg/config"
	"github.com/slutstation/slutstation-web/pkg/logger"
	corsmiddleware "github.com/slutstation/slutstation-web/pkg/middleware/cors"
	reqidmiddleware "github.com/slutstation/slutstation-web/pkg/middleware/requestid"
)

// @title Slutstation Web API
// @version 1.0.0
// @description Event listings, membership registration and DJ applications for the Slutstation site.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	issueToken := flag.String("issue-admin-token", "", "print an admin token for the given subject and exit")
	tokenTTL := flag.Duration("admin-token-ttl", 24*time.Hour, "lifetime of an issued admin token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	authSvc := service.NewAuthService(cfg.Admin.JWTSecret, logr)
	if *issueToken != "" {
		token, expires, err := authSvc.IssueAdminToken(*issueToken, *tokenTTL)
		if err != nil {
			logr.Sugar().Fatalw("failed to issue admin token", "error", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n# expires %s\n", token, expires.Format(time.RFC3339))
		return
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	store, closeStore := newCacheStore(cfg, logr)
	defer closeStore()

	eventCache := repository.NewEventCache(store, cfg.Events.CacheTTL, metricsSvc, nil, logr)
	eventSource := repository.NewEventSourceRepository(cfg.Billetto, repository.NewHTTPClient(cfg.Billetto.Timeout), eventCache, metricsSvc, logr)

	staticEvents, err := service.LoadStaticEvents()
	if err != nil {
		logr.Sugar().Fatalw("failed to load static events", "error", err)
	}

	loc, err := time.LoadLocation(cfg.Events.Timezone)
	if err != nil {
		logr.Warn("unknown events timezone, using UTC", zap.String("timezone", cfg.Events.Timezone), zap.Error(err))
		loc = time.UTC
	}

	eventSvc := service.NewEventService(service.EventServiceParams{
		Source:  eventSource,
		Cache:   eventCache,
		Static:  staticEvents,
		Mapper:  service.NewEventMapper(loc),
		Metrics: metricsSvc,
		Logger:  logr,
	})

	validate := validator.New()
	membershipRepo := repository.NewMembershipRepository(cfg.Membership.Endpoint, repository.NewHTTPClient(cfg.Membership.Timeout), metricsSvc, logr)
	membershipSvc := service.NewMembershipService(membershipRepo, cfg.Membership.APIKey, validate, logr)
	emailRepo := repository.NewEmailRepository(cfg.EmailJS.Endpoint, repository.NewHTTPClient(cfg.EmailJS.Timeout), metricsSvc, logr)
	applicationSvc := service.NewApplicationService(emailRepo, cfg.EmailJS, validate, logr)
	proxySvc := service.NewProxyService(cfg.Proxy, repository.NewHTTPClient(cfg.Proxy.Timeout), metricsSvc, logr)

	eventHandler := handler.NewEventHandler(eventSvc)
	membershipHandler := handler.NewMembershipHandler(membershipSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	proxyHandler := handler.NewProxyHandler(proxySvc)
	siteHandler := handler.NewSiteHandler(cfg.StaticDir, cfg.APIPrefix)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]func() bool{
		"events":          eventSource.IsConfigured,
		"membership":      membershipSvc.Configured,
		"dj_applications": applicationSvc.Configured,
		"admin":           authSvc.Enabled,
		"site":            siteHandler.Enabled,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// The forwarders answer their own preflights and stay open to any origin.
	for _, path := range []string{"/proxy/ticketing", "/billetto-proxy.php"} {
		r.Any(path, proxyHandler.Ticketing)
	}
	for _, path := range []string{"/proxy/membership", "/api-proxy.php"} {
		r.Any(path, proxyHandler.Membership)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	{
		events := api.Group("/events")
		events.GET("", eventHandler.List)
		events.GET("/upcoming", eventHandler.Upcoming)
		events.GET("/past", eventHandler.Past)
		events.GET("/overview", eventHandler.Overview)
		events.GET("/calendar.ics", eventHandler.Calendar)
		events.GET("/:id", eventHandler.Get)

		api.POST("/memberships", membershipHandler.Register)
		api.POST("/dj-applications", applicationHandler.Submit)

		if authSvc.Enabled() {
			admin := api.Group("/admin", internalmiddleware.AdminJWT(authSvc))
			admin.POST("/events/cache/clear", eventHandler.ClearCache)
		} else {
			logr.Info("admin routes disabled, ADMIN_JWT_SECRET is empty")
		}
	}

	if siteHandler.Enabled() {
		r.NoRoute(siteHandler.Serve)
	} else {
		logr.Warn("static site not mounted", zap.String("dir", cfg.StaticDir))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting",
			"addr", addr,
			"env", cfg.Env,
			"ticketing_configured", eventSource.IsConfigured(),
			"organizer_id", cfg.Billetto.OrganizerID,
			"cache_backend", cfg.Events.CacheBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}

// newCacheStore picks the result cache backend. A Redis that does not answer
// degrades to the in-process store.
func newCacheStore(cfg *config.Config, logr *zap.Logger) (repository.CacheStore, func()) {
	if cfg.Events.CacheBackend != config.CacheBackendRedis {
		return repository.NewMemoryCacheRepository(), func() {}
	}

	client, err := cache.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, using in-memory event cache", zap.Error(err))
		return repository.NewMemoryCacheRepository(), func() {}
	}

	store := repository.NewCacheRepository(client, "slutstation:", logr)
	return store, func() {
		if err := store.Close(); err != nil {
			logr.Warn("failed to close redis", zap.Error(err))
		}
	}
}
