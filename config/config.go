package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	DBUrl    string

	// Identity tokens
	JWTSecret string
	JWTTTL    time.Duration

	// Registration
	AllowAdminRegistration bool

	// File storage
	StorageDriver    string
	UploadDir        string // content directory for the local driver
	PublicUploadPath string // URL prefix the content directory is served under
	ResumeMaxBytes   int64
	LogoMaxBytes     int64
	UploadsPerHour   int
	S3Provider       string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Region         string
	S3Bucket         string
	S3Endpoint       string
	S3PublicURL      string

	// Malware scanning (disabled when ClamAVAddress is empty)
	ClamAVAddress string
	ClamAVTimeout time.Duration

	// Redis
	RedisURL      string
	RedisPassword string

	// Events
	RabbitMQURL    string
	EventsExchange string

	// HTTP
	CORSAllowedOrigins []string

	// Rate limiting / login throttling
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitLoginThreshold  int
	FailedLoginMaxAttempts   int
	FailedLoginBlockMinutes  int
}

func LoadConfig() (*Config, error) {
	// .env is a local convenience; deployments set real environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "5050"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 5*24*time.Hour),

		AllowAdminRegistration: getEnvBool("ALLOW_ADMIN_REGISTRATION", false),

		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		PublicUploadPath: "/" + strings.Trim(getEnv("PUBLIC_UPLOAD_PATH", "/uploads"), "/"),
		ResumeMaxBytes:   int64(getEnvInt("RESUME_MAX_BYTES", 5000000)),
		LogoMaxBytes:     int64(getEnvInt("LOGO_MAX_BYTES", 2000000)),
		UploadsPerHour:   getEnvInt("UPLOAD_MAX_PER_HOUR", 20),
		S3Provider:       getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Endpoint:       strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3PublicURL:      strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),

		ClamAVAddress: getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout: getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "talent_pool_events"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}

	switch cfg.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("config: S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return nil, errors.New("config: STORAGE_DRIVER must be local or s3")
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
