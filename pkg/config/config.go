package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Letters  LettersConfig
	Mail     MailConfig
	Delivery DeliveryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig bounds accepted spreadsheet uploads.
type UploadsConfig struct {
	MaxFileSizeBytes  int64
	AllowedExtensions []string
}

// LettersConfig governs offer-letter rendering and archive storage.
type LettersConfig struct {
	InstitutionName string
	SignatoryName   string
	SignatoryTitle  string
	ReferencePrefix string
	LogoPath        string
	SignaturePath   string
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CacheTTL        time.Duration
	CleanupInterval time.Duration
}

// MailConfig carries SMTP transport settings. Credentials are injected here,
// never read from ambient state by the delivery code.
type MailConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	FromAddress      string
	FromName         string
	BCCAddress       string
	RecipientTimeout time.Duration
}

// DeliveryConfig tunes the bulk-delivery worker queue.
type DeliveryConfig struct {
	Workers    int
	MaxRetries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 16 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		MaxFileSizeBytes:  maxUploadSize,
		AllowedExtensions: splitAndTrim(v.GetString("UPLOADS_ALLOWED_EXTENSIONS")),
	}

	cfg.Letters = LettersConfig{
		InstitutionName: v.GetString("LETTERS_INSTITUTION_NAME"),
		SignatoryName:   v.GetString("LETTERS_SIGNATORY_NAME"),
		SignatoryTitle:  v.GetString("LETTERS_SIGNATORY_TITLE"),
		ReferencePrefix: v.GetString("LETTERS_REFERENCE_PREFIX"),
		LogoPath:        v.GetString("LETTERS_LOGO_PATH"),
		SignaturePath:   v.GetString("LETTERS_SIGNATURE_PATH"),
		StorageDir:      v.GetString("LETTERS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("LETTERS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("LETTERS_SIGNED_URL_TTL"), 24*time.Hour),
		CacheTTL:        parseDuration(v.GetString("LETTERS_CACHE_TTL"), 30*time.Minute),
		CleanupInterval: parseDuration(v.GetString("LETTERS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Mail = MailConfig{
		Host:             v.GetString("MAIL_HOST"),
		Port:             v.GetInt("MAIL_PORT"),
		Username:         v.GetString("MAIL_USERNAME"),
		Password:         v.GetString("MAIL_PASSWORD"),
		FromAddress:      v.GetString("MAIL_FROM_ADDRESS"),
		FromName:         v.GetString("MAIL_FROM_NAME"),
		BCCAddress:       v.GetString("MAIL_BCC_ADDRESS"),
		RecipientTimeout: parseDuration(v.GetString("MAIL_RECIPIENT_TIMEOUT"), 30*time.Second),
	}

	cfg.Delivery = DeliveryConfig{
		Workers:    v.GetInt("DELIVERY_WORKERS"),
		MaxRetries: v.GetInt("DELIVERY_MAX_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "admission_offers")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 16*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_EXTENSIONS", ".csv,.xlsx,.xls")

	v.SetDefault("LETTERS_INSTITUTION_NAME", "Global University")
	v.SetDefault("LETTERS_SIGNATORY_NAME", "Prof. Jane Smith")
	v.SetDefault("LETTERS_SIGNATORY_TITLE", "Dean of Admissions")
	v.SetDefault("LETTERS_REFERENCE_PREFIX", "ADM-")
	v.SetDefault("LETTERS_LOGO_PATH", "./assets/logo.png")
	v.SetDefault("LETTERS_SIGNATURE_PATH", "./assets/signature.png")
	v.SetDefault("LETTERS_STORAGE_DIR", "./letters")
	v.SetDefault("LETTERS_SIGNED_URL_SECRET", "dev_letters_secret")
	v.SetDefault("LETTERS_SIGNED_URL_TTL", "24h")
	v.SetDefault("LETTERS_CACHE_TTL", "30m")
	v.SetDefault("LETTERS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("MAIL_HOST", "localhost")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_FROM_ADDRESS", "admissions@example.edu")
	v.SetDefault("MAIL_FROM_NAME", "Admissions Office")
	v.SetDefault("MAIL_BCC_ADDRESS", "")
	v.SetDefault("MAIL_RECIPIENT_TIMEOUT", "30s")

	v.SetDefault("DELIVERY_WORKERS", 1)
	v.SetDefault("DELIVERY_MAX_RETRIES", 1)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
