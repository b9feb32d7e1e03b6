package v1

import (
	"time"

	"talent-pool-backend/config"
	"talent-pool-backend/internal/delivery/http/middleware"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/internal/usecase"
	"talent-pool-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	TalentUC      domain.TalentUsecase
	RecruiterUC   domain.RecruiterUsecase
	ProfileUC     domain.ProfileUsecase
	HealthUC      usecase.HealthUsecase
	Tokens        middleware.TokenParser
	LoginTracker  *security.LoginTracker
	UploadLimiter *security.UploadLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins)) // answers preflight before anything else
	r.Use(middleware.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.NoRoute(middleware.NotFound())

	if cfg.StorageDriver == config.StorageLocal {
		r.Static(cfg.PublicUploadPath, cfg.UploadDir)
	}

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	api := r.Group("/api", middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	NewHealthHandler(api, deps.HealthUC)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitLoginThreshold, window))
	uploadLimit := middleware.UploadLimit(deps.UploadLimiter)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(api, protected, deps.AuthUC, deps.LoginTracker, authLimit)
		NewTalentHandler(protected, deps.TalentUC, uploadLimit, middleware.MaxBody(cfg.ResumeMaxBytes+middleware.MultipartOverhead))
		NewRecruiterHandler(protected, deps.RecruiterUC, uploadLimit, middleware.MaxBody(cfg.LogoMaxBytes+middleware.MultipartOverhead))
		NewProfileHandler(api, protected, deps.ProfileUC)
	}

	return r
}
