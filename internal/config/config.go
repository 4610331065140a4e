package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	Port        string
	LogLevel    string
	FrontendURL string
	ApolloAppID string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Mail       MailConfig
	AI         AIConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig

	JobCacheTTL    time.Duration
	RequestTimeout time.Duration
	CookieSecure   bool
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type MailConfig struct {
	AutomationEnabled bool
	NotificationEmail string

	MailgunAPIKey string
	MailgunDomain string
	FromEmail     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

func (m MailConfig) MailgunConfigured() bool {
	return m.MailgunAPIKey != "" && m.MailgunDomain != ""
}

func (m MailConfig) SMTPConfigured() bool {
	return m.SMTPHost != ""
}

type AIConfig struct {
	OpenAIAPIKey string
	Model        string
	Timeout      time.Duration
}

func (a AIConfig) Enabled() bool {
	return a.OpenAIAPIKey != ""
}

type CloudinaryConfig struct {
	URL    string
	Folder string
}

type RateLimitConfig struct {
	ApplicationsPerHour int
	JobPostsPerDay      int
	AIRequestsPerHour   int
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("No .env file found")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		ApolloAppID: getEnv("APOLLO_APP_ID", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 1)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", time.Hour),
			RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		},
		Mail: MailConfig{
			AutomationEnabled: getEnvAsBool("EMAIL_AUTOMATION_ENABLED", false),
			NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
			MailgunAPIKey:     getEnv("MAILGUN_API_KEY", ""),
			MailgunDomain:     getEnv("MAILGUN_DOMAIN", ""),
			FromEmail:         getEnv("MAILGUN_FROM_EMAIL", getEnv("SMTP_FROM", "no-reply@vantahire.com")),
			SMTPHost:          getEnv("SMTP_HOST", ""),
			SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername:      getEnv("SMTP_USERNAME", ""),
			SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		},
		AI: AIConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("OPENAI_MODEL", "gpt-4o"),
			Timeout:      getEnvAsDuration("AI_TIMEOUT", 30*time.Second),
		},
		Cloudinary: CloudinaryConfig{
			URL:    getEnv("CLOUDINARY_URL", ""),
			Folder: getEnv("CLOUDINARY_FOLDER", "vantahire/resumes"),
		},
		RateLimit: RateLimitConfig{
			ApplicationsPerHour: getEnvAsInt("RATE_LIMIT_APPLICATIONS_PER_HOUR", 3),
			JobPostsPerDay:      getEnvAsInt("RATE_LIMIT_JOB_POSTS_PER_DAY", 10),
			AIRequestsPerHour:   getEnvAsInt("RATE_LIMIT_AI_PER_HOUR", 5),
		},

		JobCacheTTL:    getEnvAsDuration("JOB_CACHE_TTL", 30*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 45*time.Second),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string
	if c.Database.URL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			problems = append(problems, "JWT_SECRET is required in production")
		} else {
			c.JWT.Secret = "development-secret-change-me"
			log.Warn().Msg("JWT_SECRET not set, using development secret")
		}
	}
	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters in production")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
