package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the API reads from the environment.
type Config struct {
	Env      string
	HTTPAddr string
	DBDSN    string

	JWTSecret    string
	JWTTTL       time.Duration
	CookieSecure bool
	CORSOrigin   string

	CarrierName    string
	CarrierBaseURL string
	CarrierAPIKey  string
	CarrierTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AdminEmail    string
	AdminPassword string
	StoreName     string

	UploadDir     string
	PublicBaseURL string

	TrackingSyncCron string

	GeminiAPIKey string
	GeminiModel  string

	OTelExporterURL string
	OTelSampleRate  float64
}

// Load reads .env (if present) and then the process environment.
func Load(logger *slog.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Warn("could not load .env file, relying on system environment variables")
	}

	return Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DBDSN:    getEnv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/storefront?parseTime=true"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTTTL:       getEnvAsDuration("JWT_TTL", 72*time.Hour),
		CookieSecure: getEnvAsBool("COOKIE_SECURE", false),
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),

		CarrierName:    getEnv("CARRIER_NAME", "delhivery"),
		CarrierBaseURL: strings.TrimRight(getEnv("CARRIER_BASE_URL", ""), "/"),
		CarrierAPIKey:  getEnv("CARRIER_API_KEY", ""),
		CarrierTimeout: getEnvAsDuration("CARRIER_TIMEOUT", 15*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "orders@localhost"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		StoreName:     getEnv("STORE_NAME", "Herbal Storefront"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		TrackingSyncCron: getEnv("TRACKING_SYNC_CRON", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		OTelExporterURL: getEnv("OTEL_EXPORTER_URL", ""),
		OTelSampleRate:  getEnvAsFloat("OTEL_SAMPLE_RATE", 1.0),
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
