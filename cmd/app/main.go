package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"valid-assessment-backend/cmd/app/internal/controller"
	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/config"
	"valid-assessment-backend/internal/db"
	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/internal/model"
	"valid-assessment-backend/internal/offline"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/internal/service"
	"valid-assessment-backend/pkg/middleware"
	"valid-assessment-backend/utilities"
)

const version = "1.0.0"

func main() {
	printStartUpBanner()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := utilities.SetupLogging(utilities.LogOptions{
		Dir:        cfg.Logging.Dir,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer utilities.CloseLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(reg)

	// Hosted database is optional; without it everything goes to the offline queue.
	var assessmentRepo repository.AssessmentRepository
	bank := assessment.DefaultBank()
	gdb, err := db.InitDBFromConfig(cfg)
	switch {
	case errors.Is(err, db.ErrNotInitialized):
		utilities.Warn("hosted database disabled, completed assessments will be queued locally")
	case err != nil:
		utilities.Error("database unavailable, completed assessments will be queued locally: %v", err)
	default:
		defer db.Close()
		if err := gdb.AutoMigrate(&model.Question{}, &model.AssessmentRecord{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		assessmentRepo = repository.NewAssessmentRepository(gdb)
		questionRepo := repository.NewQuestionRepository(gdb)
		if cfg.DB.Initialize {
			seedQuestionBank(ctx, questionRepo)
		}
		if cfg.Assessment.LoadBankFromDB {
			bank = loadQuestionBank(ctx, questionRepo, bank)
		}
	}

	queue, err := offline.Open(cfg.Offline.QueuePath)
	if err != nil {
		log.Fatalf("failed to open offline queue: %v", err)
	}
	defer queue.Close()

	var tokens *utilities.TokenIssuer
	if cfg.Authentication.EnableTokenAuth {
		tokens, err = utilities.NewTokenIssuer(cfg.Authentication.TokenSecret, time.Duration(cfg.Authentication.SessionTimeout)*time.Minute)
		if err != nil {
			log.Fatalf("failed to configure session tokens: %v", err)
		}
	}

	bus := utilities.NewEventBus()
	minDur, maxDur := cfg.Assessment.Timing()

	// Create services.
	assessmentService, err := service.NewAssessmentService(service.AssessmentOptions{
		Bank:        bank,
		Repo:        assessmentRepo,
		Queue:       queue,
		Tokens:      tokens,
		Bus:         bus,
		Metrics:     m,
		Timing:      assessment.TimingPolicy{MinDuration: minDur, MaxDuration: maxDur},
		MaxSessions: cfg.Assessment.MaxActiveSessions,
		IdleTimeout: time.Duration(cfg.Authentication.SessionTimeout) * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to create assessment service: %v", err)
	}
	reportService := service.NewReportService(cfg.Reports.OutputDir)
	if cfg.Reports.Enabled {
		service.InitReportEventListeners(bus, reportService)
	}
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
		hooks := service.NewWebhookService(cfg.Webhook.URL, cfg.Webhook.Secret, timeout, cfg.Webhook.RatePerSecond, m)
		service.InitWebhookEventListeners(bus, hooks, timeout)
	}
	if assessmentRepo != nil {
		syncService := service.NewSyncService(queue, assessmentRepo, m, cfg.Offline.BatchSize)
		go syncService.Run(ctx, time.Duration(cfg.Offline.SyncInterval)*time.Second)
	}

	// Initialize Gin router.
	gin.DefaultWriter = utilities.InfoWriter()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	controller.RegisterRoutes(r, assessmentService, reportService, tokens, cfg.Authentication.AdminKey, reg)

	// Start server on the host and port specified in the XML config.
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utilities.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utilities.Error("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utilities.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Context.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utilities.Error("graceful shutdown failed: %v", err)
	}
	// Let in-flight report and webhook handlers finish.
	bus.Wait()
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("VALID", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("VALID ASSESSMENT API (v%s)\n\n", version)
}
