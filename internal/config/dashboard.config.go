package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	HTTPAddr    string
	Environment string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP. Only
	// enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool

	Backend    BackendConfig
	ImageHost  ImageHostConfig
	Session    SessionConfig
	LoginLimit RateLimitConfig

	RedisAddr string
	RedisPass string

	DB DatabaseConfig
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type ImageHostConfig struct {
	UploadURL    string
	CloudName    string
	UploadPreset string
	MaxWidth     int
	MaxHeight    int
	Quality      int
	MaxPixels    int
}

// Enabled reports whether uploads can be attempted at all.
func (c ImageHostConfig) Enabled() bool {
	return c.CloudName != "" && c.UploadPreset != ""
}

type SessionConfig struct {
	Secret         string
	TTL            time.Duration
	VerifyTTL      time.Duration
	SubmitGuardTTL time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Block  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether an audit database was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":7020"),
		Environment: getEnv("ENVIRONMENT", "production"),
		TrustProxy:  getEnvBool("TRUST_PROXY", false),
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", "https://rent-x-backend-nine.vercel.app"), "/"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
			RPS:     getEnvFloat("BACKEND_RPS", 20),
			Burst:   getEnvInt("BACKEND_BURST", 40),
		},
		ImageHost: ImageHostConfig{
			UploadURL:    strings.TrimRight(getEnv("CLOUDINARY_UPLOAD_URL", "https://api.cloudinary.com/v1_1"), "/"),
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
			MaxWidth:     getEnvInt("IMAGE_MAX_WIDTH", 1024),
			MaxHeight:    getEnvInt("IMAGE_MAX_HEIGHT", 1024),
			Quality:      getEnvInt("IMAGE_QUALITY", 80),
			MaxPixels:    getEnvInt("IMAGE_MAX_PIXELS", 40_000_000),
		},
		Session: SessionConfig{
			Secret:         getEnv("SESSION_SECRET", ""),
			TTL:            getEnvDuration("SESSION_TTL", 12*time.Hour),
			VerifyTTL:      getEnvDuration("SESSION_VERIFY_TTL", 15*time.Second),
			SubmitGuardTTL: getEnvDuration("SUBMIT_GUARD_TTL", 15*time.Second),
		},
		LoginLimit: RateLimitConfig{
			Limit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
			Window: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
			Block:  getEnvDuration("LOGIN_RATE_BLOCK", 10*time.Minute),
		},
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "rentx_admin"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}
}

func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
