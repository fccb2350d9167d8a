package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/admission-offer-api/api/swagger"
	"github.com/noah-isme/admission-offer-api/internal/handler"
	"github.com/noah-isme/admission-offer-api/internal/middleware"
	"github.com/noah-isme/admission-offer-api/internal/repository"
	"github.com/noah-isme/admission-offer-api/internal/service"
	"github.com/noah-isme/admission-offer-api/pkg/cache"
	"github.com/noah-isme/admission-offer-api/pkg/config"
	"github.com/noah-isme/admission-offer-api/pkg/database"
	"github.com/noah-isme/admission-offer-api/pkg/jobs"
	"github.com/noah-isme/admission-offer-api/pkg/letter"
	"github.com/noah-isme/admission-offer-api/pkg/logger"
	"github.com/noah-isme/admission-offer-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/admission-offer-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/admission-offer-api/pkg/middleware/requestid"
	"github.com/noah-isme/admission-offer-api/pkg/storage"
)

// @title Admission Offer API
// @version 1.0.0
// @description Offer letter generation and delivery for admitted students
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis only backs the letter cache, so a missing instance degrades to
	// rendering every letter fresh.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, letter caching disabled", "error", err)
		redisClient = nil
	}
	letterCache := cache.NewLetterCache(redisClient, cfg.Letters.CacheTTL)

	store, err := storage.NewLocalStorage(cfg.Letters.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init letter storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Letters.SignedURLSecret, cfg.Letters.SignedURLTTL)

	renderer := letter.NewRenderer(letter.Config{
		InstitutionName: cfg.Letters.InstitutionName,
		SignatoryName:   cfg.Letters.SignatoryName,
		SignatoryTitle:  cfg.Letters.SignatoryTitle,
		LogoPath:        cfg.Letters.LogoPath,
		SignaturePath:   cfg.Letters.SignaturePath,
	})

	metricsSvc := service.NewMetricsService()
	refs := service.NewReferenceAssigner(cfg.Letters.ReferencePrefix)
	classifier := service.NewClassifierService(logr)
	ingest := service.NewIngestService(classifier, logr)

	batchRepo := repository.NewBatchRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	batchSvc := service.NewBatchService(batchRepo, batchRepo, deliveryRepo, ingest, refs, letterCache, validator.New(), logr, 0)
	letterSvc := service.NewLetterService(batchRepo, renderer, refs, letterCache, metricsSvc, logr)
	pipelineSvc := service.NewPipelineService(batchRepo, renderer, refs, store, signer, metricsSvc, logr, service.PipelineConfig{
		APIPrefix: cfg.APIPrefix,
	})
	deliverySvc := service.NewDeliveryService(deliveryRepo, batchRepo, renderer, refs, mailer.NewSMTPMailer(mailer.Config{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		BCCAddress:  cfg.Mail.BCCAddress,
	}), metricsSvc, logr, service.DeliveryConfig{
		InstitutionName:  cfg.Letters.InstitutionName,
		RecipientTimeout: cfg.Mail.RecipientTimeout,
	})

	queue := jobs.NewQueue("letter-delivery", deliverySvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Delivery.Workers,
		MaxRetries: cfg.Delivery.MaxRetries,
		Logger:     logr,
	})
	deliverySvc.SetQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	go runCleanup(ctx, cfg.Letters.CleanupInterval, pipelineSvc, batchSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	batchHandler := handler.NewBatchHandler(batchSvc, cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedExtensions)
	letterHandler := handler.NewLetterHandler(letterSvc, pipelineSvc)
	deliveryHandler := handler.NewDeliveryHandler(deliverySvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/batches", batchHandler.Upload)
		api.GET("/batches/:id", batchHandler.Get)
		api.DELETE("/batches/:id", batchHandler.Delete)
		api.GET("/batches/:id/letters/:index", letterHandler.Render)
		api.POST("/batches/:id/letters/archive", letterHandler.Archive)
		api.GET("/letters/download/:token", letterHandler.Download)
		api.POST("/batches/:id/delivery", deliveryHandler.Create)
		api.GET("/delivery/:id", deliveryHandler.Status)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}

func runCleanup(ctx context.Context, interval time.Duration, pipeline *service.PipelineService, batches *service.BatchService) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pipeline.Cleanup()
			batches.Prune(ctx)
		}
	}
}
