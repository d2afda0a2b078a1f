package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Seimmet/dolcie-salon/internal/audit"
	"github.com/Seimmet/dolcie-salon/internal/config"
	dbpkg "github.com/Seimmet/dolcie-salon/internal/db"
	"github.com/Seimmet/dolcie-salon/internal/export"
	"github.com/Seimmet/dolcie-salon/internal/infra/cache"
	"github.com/Seimmet/dolcie-salon/internal/logger"
	"github.com/Seimmet/dolcie-salon/internal/metrics"
	"github.com/Seimmet/dolcie-salon/internal/middleware"
	"github.com/Seimmet/dolcie-salon/internal/notification"
	"github.com/Seimmet/dolcie-salon/internal/payment"
	"github.com/Seimmet/dolcie-salon/internal/routes"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	db := dbpkg.NewDB(cfg, log)

	// --------------------------------------------------
	// Metrics
	// --------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("salon", reg)

	// --------------------------------------------------
	// Cache
	// --------------------------------------------------
	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
	}
	slotCache := cache.NewAvailabilityCache(rdb, cfg.CacheTTL, log)

	// --------------------------------------------------
	// Payments
	// --------------------------------------------------
	gateway, err := payment.NewGateway(cfg.PaymentGateway, payment.GatewayKeys{
		StripeSecretKey:  cfg.StripeSecretKey,
		MercadoPagoToken: cfg.MercadoPagoToken,
	})
	if err != nil {
		log.Fatal("payment gateway", zap.Error(err))
	}
	if cfg.IsProduction() && gateway.Name() == "memory" {
		log.Fatal("in-memory payment gateway is not allowed in production")
	}

	// --------------------------------------------------
	// Background workers
	// --------------------------------------------------
	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	notifier := notification.NewDispatcher(notification.NewLogSender(log), 256, log)
	notifier.OnDrop = func(notification.Message) { m.NotificationsDropped.Inc() }

	archiver := export.NewS3Archiver(export.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log, m),
		middleware.CORSMiddleware(nil),
	)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Cache:    slotCache,
		Gateway:  gateway,
		Audit:    auditDispatcher,
		Notifier: notifier,
		Archiver: archiver,
		Clock:    timezone.SystemClock,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("payment_gateway", gateway.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// --------------------------------------------------
	// Shutdown
	// --------------------------------------------------
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}

	notifier.Close()
	auditDispatcher.Close()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
