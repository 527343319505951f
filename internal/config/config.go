package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Database
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string
	AutoMigrate    bool
	DBMaxConns     int
	DBMinConns     int

	// Auth
	JWTSecret string
	JWKSURL   string // when set, bearer tokens are verified against this key set instead of JWTSecret
	TokenTTL  time.Duration

	// Blob storage
	BlobBackend      string // "local" or "s3"
	UploadDir        string
	UploadPolicyFile string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Prefix         string

	// Rate limiting
	LoginMaxAttempts       int
	LoginWindow            time.Duration
	RateLimitSweepInterval time.Duration
	APIRequestsPerSecond   float64
	APIBurst               int

	// Background work
	FileReconcileInterval time.Duration

	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", "data/marketplace.db"),
		AutoMigrate:    getBool("AUTO_MIGRATE", env != "prod"),
		DBMaxConns:     getInt("DB_MAX_CONNS", 25),
		DBMinConns:     getInt("DB_MIN_CONNS", 2),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWKSURL:   getEnv("JWKS_URL", ""),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		BlobBackend:      strings.ToLower(getEnv("BLOB_BACKEND", "local")),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		UploadPolicyFile: getEnv("UPLOAD_POLICY_FILE", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Prefix:         getEnv("S3_PREFIX", "uploads/"),

		LoginMaxAttempts:       getInt("LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts),
		LoginWindow:            getDuration("LOGIN_WINDOW", DefaultLoginWindow),
		RateLimitSweepInterval: getDuration("RATE_LIMIT_SWEEP_INTERVAL", time.Minute),
		APIRequestsPerSecond:   getFloat("API_RPS", 20),
		APIBurst:               getInt("API_BURST", 40),

		FileReconcileInterval: getDuration("FILE_RECONCILE_INTERVAL", 10*time.Minute),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
	}
}

// IsDev reports whether the server runs in a development environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev" || c.Environment == "test"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Malformed numeric and duration values fall back to the default.

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
