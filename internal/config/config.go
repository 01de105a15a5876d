package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token formats accepted by AUTH_TOKEN_FORMAT
const (
	TokenFormatJWT    = "jwt"
	TokenFormatPaseto = "paseto"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Signup   SignupConfig
	Email    EmailConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allow-list
	BaseURL         string   // public site URL used for verify links and redirects
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
	AutoMigrate    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenFormat string
	JWTSecret   []byte
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey []byte
	// Zero means issued tokens carry no expiry claim.
	AccessTokenDuration time.Duration
	// When false the bearer middleware only decodes the payload.
	VerifySignatures bool
	TrustedCallerKey string
}

type SignupConfig struct {
	TokenTTL           time.Duration
	AllowedEmailDomain string // empty allows any domain
	PasswordMinLength  int
	EmailCooldown      time.Duration
}

type EmailConfig struct {
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	FromEmail      string
	FromName       string
}

type StorageConfig struct {
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	Bucket            string
	PublicBaseURL     string
	UsePathStyle      bool
	MaxUploadBytes    int64
	UploadConcurrency int
}

// Load reads configuration from environment variables
// Call godotenv.Load() before this if using .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:5173", "https://jeogi.vercel.app"}),
			BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:5173"), "/"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "jeogi"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
			AutoMigrate:    getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenFormat:         strings.ToLower(getEnv("AUTH_TOKEN_FORMAT", TokenFormatJWT)),
			JWTSecret:           []byte(getEnv("JWT_SECRET", "")),
			PasetoKey:           []byte(getEnv("PASETO_KEY", "")),
			AccessTokenDuration: getDurationEnv("ACCESS_TOKEN_DURATION", 7*24*time.Hour),
			VerifySignatures:    getBoolEnv("AUTH_VERIFY_SIGNATURES", true),
			TrustedCallerKey:    getEnv("TRUSTED_CALLER_KEY", ""),
		},
		Signup: SignupConfig{
			TokenTTL:           getDurationEnv("SIGNUP_TOKEN_TTL", 30*time.Minute),
			AllowedEmailDomain: strings.ToLower(getEnv("SIGNUP_ALLOWED_EMAIL_DOMAIN", "gachon.ac.kr")),
			PasswordMinLength:  getIntEnv("SIGNUP_PASSWORD_MIN_LENGTH", 6),
			EmailCooldown:      getDurationEnv("SIGNUP_EMAIL_COOLDOWN", time.Minute),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			SMTPHost:       getEnv("SMTP_HOST", ""),
			SMTPPort:       getEnv("SMTP_PORT", "587"),
			SMTPUser:       getEnv("SMTP_USER", ""),
			SMTPPassword:   getEnv("SMTP_PASS", ""),
			FromEmail:      getEnv("FROM_EMAIL", "no-reply@jeogi.app"),
			FromName:       getEnv("FROM_NAME", "Jeogi"),
		},
		Storage: StorageConfig{
			Region:            getEnv("S3_REGION", "ap-northeast-2"),
			Endpoint:          getEnv("S3_ENDPOINT", ""),
			AccessKeyID:       getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:            getEnv("S3_BUCKET", "product-images"),
			PublicBaseURL:     strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			UsePathStyle:      getBoolEnv("S3_USE_PATH_STYLE", true),
			MaxUploadBytes:    int64(getIntEnv("UPLOAD_MAX_BYTES", 5*1024*1024)),
			UploadConcurrency: getIntEnv("UPLOAD_CONCURRENCY", 4),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.TokenFormat {
	case TokenFormatJWT:
		if len(c.Auth.JWTSecret) == 0 {
			return fmt.Errorf("JWT_SECRET is required when AUTH_TOKEN_FORMAT=%s", TokenFormatJWT)
		}
	case TokenFormatPaseto:
		// Validate PASETO key length (must be 32 bytes for v4.local)
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_FORMAT %q", c.Auth.TokenFormat)
	}

	if c.Signup.TokenTTL <= 0 {
		return fmt.Errorf("SIGNUP_TOKEN_TTL must be positive")
	}
	if c.Storage.UploadConcurrency < 1 {
		c.Storage.UploadConcurrency = 1
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// VerifyURL builds the link embedded in signup emails
func (c *ServerConfig) VerifyURL() string {
	return c.BaseURL + "/api/verify"
}

// LoginURL is where the verify endpoint redirects to
func (c *ServerConfig) LoginURL() string {
	return c.BaseURL + "/login"
}

// UsesSendGrid reports whether mail goes through the SendGrid API instead of SMTP
func (c *EmailConfig) UsesSendGrid() bool {
	return c.SendGridAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv reads a whole number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
