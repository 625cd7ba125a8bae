// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DBType           string
	DBPath           string
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBPoolSize       int
	DBFallbackSQLite bool

	UploadDir      string
	AllowedOrigins []string
	SessionSecret  string
	SessionTTL     time.Duration
	OTPTTL         time.Duration

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	LogLevel         string
	LogFormat        string
	RateLimitEnabled bool
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", EnvDevelopment)

	dbType := strings.ToLower(os.Getenv("DB_TYPE"))
	if dbType == "" {
		dbType = BackendSQLite
		if os.Getenv("DB_HOST") != "" {
			dbType = BackendMySQL
		}
	}

	logFormat := "console"
	if env == EnvProduction {
		logFormat = "json"
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: env,

		DBType:           dbType,
		DBPath:           getEnv("DB_PATH", "data/globe.sqlite"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnvInt("DB_PORT", 3306),
		DBUser:           getEnv("DB_USER", "travel_user"),
		DBPassword:       getEnv("DB_PASSWORD", "travel_password"),
		DBName:           getEnv("DB_NAME", "travel_app"),
		DBPoolSize:       getEnvInt("DB_POOL_SIZE", 10),
		DBFallbackSQLite: getEnvBool("DB_FALLBACK_SQLITE", false),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:5000")),
		SessionSecret:  getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionTTL:     30 * 24 * time.Hour,
		OTPTTL:         10 * time.Minute,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 25),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@globe-travel.com"),
		FromName:     getEnv("FROM_NAME", "Globe Travel"),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", logFormat),
		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
