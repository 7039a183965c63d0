package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/policy-hub/internal/config"
	"github.com/KasumiMercury/policy-hub/internal/handler"
	"github.com/KasumiMercury/policy-hub/internal/health"
	"github.com/KasumiMercury/policy-hub/internal/infra/docstore"
	"github.com/KasumiMercury/policy-hub/internal/infra/drive"
	"github.com/KasumiMercury/policy-hub/internal/infra/feedrecorder"
	"github.com/KasumiMercury/policy-hub/internal/infra/googleauth"
	"github.com/KasumiMercury/policy-hub/internal/infra/tokenstore"
	"github.com/KasumiMercury/policy-hub/internal/observability/logging"
	"github.com/KasumiMercury/policy-hub/internal/observability/metrics"
	"github.com/KasumiMercury/policy-hub/internal/observability/middleware"
	"github.com/KasumiMercury/policy-hub/internal/service/dedup"
	"github.com/KasumiMercury/policy-hub/internal/service/expiry"
	"github.com/KasumiMercury/policy-hub/internal/service/feed"
	"github.com/KasumiMercury/policy-hub/internal/service/policy"
	"github.com/KasumiMercury/policy-hub/internal/service/reminder"
	"github.com/KasumiMercury/policy-hub/internal/service/user"
)

// Version is set via ldflags at build time
var Version = "dev"

const serviceModule = logging.Module("policy-hub")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logLevel := new(slog.LevelVar)

	obs, err := initObservability(ctx, logLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	logLevel.Set(cfg.LogLevel)

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	feedMetrics, err := metrics.NewFeedMetrics()
	if err != nil {
		slog.Error("failed to initialize feed metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery under the gcloud build
	feedRecorder, err := feedrecorder.NewRecorder(ctx, feedrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize feed recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := feedRecorder.Close(); err != nil {
			slog.Warn("failed to close feed recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	firestoreClient, err := docstore.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.DatabaseID)
	if err != nil {
		slog.Error("failed to connect firestore",
			slog.String("event", "firestore.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := firestoreClient.Close(); err != nil {
			slog.Warn("failed to close firestore client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("firestore connected",
		slog.String("project_id", cfg.Firestore.ProjectID),
		slog.String("database_id", cfg.Firestore.DatabaseID),
	)

	oauthConfig, err := googleauth.NewOAuthConfig(cfg.Google)
	if err != nil {
		slog.Error("failed to load google oauth configuration", slog.String("error", err.Error()))
		return 1
	}

	policyRepo := docstore.NewPolicyRepository(firestoreClient)
	alertRepo := docstore.NewAlertRepository(firestoreClient, docstore.CollectionAlerts)
	reminderRepo := docstore.NewAlertRepository(firestoreClient, docstore.CollectionReminders)
	userRepo := docstore.NewUserRepository(firestoreClient)

	authFlow := googleauth.NewFlow(oauthConfig, tokenstore.NewStore(redisClient, cfg.Google.TokenKey))
	fileStorage := drive.NewStorage(authFlow, cfg.Google.DriveFolderID)

	classifier := expiry.NewClassifier()

	feedService := feed.NewService(
		policyRepo,
		alertRepo,
		reminderRepo,
		dedup.NewDeduplicator(classifier),
		feedRecorder,
		feedMetrics,
	)
	policyService := policy.NewService(policyRepo, fileStorage, cfg.Upload.MaxDocumentBytes)
	userService := user.NewService(userRepo, fileStorage, cfg.Upload.MaxPhotoBytes)
	reminderService := reminder.NewService(policyRepo, alertRepo, taskQueue, classifier, feedMetrics)

	feedHandler := handler.NewFeedHandler(feedService)
	policyHandler := handler.NewPolicyHandler(policyService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	userHandler := handler.NewUserHandler(userService)
	fileHandler := handler.NewFileHandler(fileStorage, cfg.Upload.MaxDocumentBytes)
	oauthHandler := handler.NewOAuthHandler(authFlow, logging.Environment(cfg.Env) == logging.EnvProd)

	// Setup router with observability middleware
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/policy-hub/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	healthChecker := health.NewChecker(Version, map[string]health.Probe{
		"redis":     health.RedisProbe(redisClient),
		"firestore": health.FirestoreProbe(firestoreClient, docstore.CollectionUsers),
	})
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Policy Hub backend is running")
	})

	// OAuth consent for Drive uploads
	r.GET("/auth", oauthHandler.HandleAuth)
	r.GET("/google/auth", oauthHandler.HandleAuth)
	r.GET("/oauth2callback", oauthHandler.HandleCallback)
	r.GET("/google/oauth2callback", oauthHandler.HandleCallback)

	documentLimit := handler.LimitBody(cfg.Upload.MaxDocumentBytes)
	r.POST("/upload", documentLimit, fileHandler.HandleUpload)
	r.POST("/upload-and-save", documentLimit, policyHandler.HandleCreate("policyDocument"))

	policies := r.Group("/api/policies")
	{
		policies.GET("", policyHandler.HandleList)
		policies.GET("/alerts", feedHandler.HandleAlerts)
		policies.GET("/reminders", feedHandler.HandleReminders)
		policies.POST("/reminders/send", reminderHandler.HandleSend)
		policies.POST("/add", documentLimit, policyHandler.HandleAdd())
		policies.GET("/:id", policyHandler.HandleGet)
	}

	users := r.Group("/api/users")
	{
		users.POST("/initialize", userHandler.HandleInitialize)
		users.POST("/upload-photo", handler.LimitBody(cfg.Upload.MaxPhotoBytes), userHandler.HandleUploadPhoto)
		users.GET("/:uid", userHandler.HandleGet)
		users.PUT("/:uid", userHandler.HandleUpdate)
	}

	// HTTP/2 cleartext for Cloud Run
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Bool("reminder_dispatch", taskQueue != nil),
			slog.Bool("drive_folder_set", cfg.Google.DriveFolderID != ""),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
