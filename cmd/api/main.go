package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-pool-backend/config"
	_ "talent-pool-backend/docs" // swagger spec registration
	v1 "talent-pool-backend/internal/delivery/http/v1"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/repository/postgres"
	"talent-pool-backend/internal/usecase"
	"talent-pool-backend/pkg/auth"
	"talent-pool-backend/pkg/database"
	"talent-pool-backend/pkg/events"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/redis"
	"talent-pool-backend/pkg/resumetext"
	"talent-pool-backend/pkg/security"
	"talent-pool-backend/pkg/security/antivirus"
	"talent-pool-backend/pkg/storage"
	"talent-pool-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Talent Pool API
// @version         1.0
// @description     Talent marketplace backend: talent profiles, recruiter search and shortlists.
// @host            localhost:5050
// @BasePath        /api
// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting talent pool backend", "port", cfg.Port)

	env := "development"
	if cfg.IsProduction() {
		env = "production"
	}
	secLogger := security.InitSecurityLogger("talent-pool-api", env)
	defer secLogger.Sync()

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var redisCheck func(context.Context) error
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	} else {
		redisCheck = redis.HealthCheck
		defer redis.Close()
	}

	// 5. Setup File Storage
	store, err := newFileStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialize file storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// 6. Setup Event Publisher (optional)
	var publisher domain.EventPublisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, events disabled", "error", err)
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
		}
	}

	// 7. Setup Malware Scanner (optional)
	var scanner usecase.MalwareScanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAV(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := clam.Ping(pingCtx); err != nil {
			logger.Log.Warn("ClamAV not reachable at startup, uploads will be refused until it is", "address", cfg.ClamAVAddress, "error", err)
		}
		cancel()
		scanner = clam
	}

	// 8. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	talentRepo := postgres.NewTalentRepository(dbPool)
	recruiterRepo := postgres.NewRecruiterRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)

	// 9. Setup UseCases
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authUC := usecase.NewAuthUsecase(userRepo, talentRepo, recruiterRepo, tokens, cfg.AllowAdminRegistration)
	talentUC := usecase.NewTalentUsecase(talentRepo, store, resumetext.New(), publisher, scanner, cfg.ResumeMaxBytes)
	recruiterUC := usecase.NewRecruiterUsecase(recruiterRepo, talentRepo, store, publisher, scanner, cfg.LogoMaxBytes)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	healthUC := usecase.NewHealthUsecase(dbPool, redisCheck)

	// 10. Setup Router
	gin.SetMode(cfg.GinMode)
	validation.RegisterGinValidators()

	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	}, secLogger)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		TalentUC:      talentUC,
		RecruiterUC:   recruiterUC,
		ProfileUC:     profileUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		LoginTracker:  loginTracker,
		UploadLimiter: security.NewUploadLimiter(cfg.UploadsPerHour),
		Config:        cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newFileStore(ctx context.Context, cfg *config.Config) (domain.FileStore, error) {
	if cfg.StorageDriver == config.StorageS3 {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s3Store.Ping(pingCtx); err != nil {
			logger.Log.Warn("S3 bucket not reachable at startup", "bucket", cfg.S3Bucket, "error", err)
		}
		return s3Store, nil
	}
	localStore, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicUploadPath)
	if err != nil {
		return nil, err
	}
	return localStore, nil
}
