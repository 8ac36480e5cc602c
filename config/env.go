package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const devJWTSecret = "dev-only-secret-change-me"

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	MongoDatabase string
	JWTSecret     string
	PasswordHash  string
	UploadTmpDir  string
	MaxUploadSize int64
	CookieSecure  bool
	OriginURL     string
	LogLevel      string
	LogFile       string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	SMTPFrom         string
	AdminNotifyEmail string
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment variables")
	}

	AppConfig = FromEnv()
	return AppConfig
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:   getEnv("DATABASE_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "handmade_store"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PasswordHash:  getEnv("PASSWORD_HASH", "bcrypt"),
		UploadTmpDir:  getEnv("UPLOAD_TMP_DIR", filepath.Join(os.TempDir(), "handmade-uploads")),
		MaxUploadSize: maxUploadSize,
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		OriginURL:     os.Getenv("ORIGIN_URL"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "handmade-products"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         smtpPort,
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		SMTPFrom:         os.Getenv("SMTP_FROM"),
		AdminNotifyEmail: os.Getenv("ADMIN_NOTIFY_EMAIL"),
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		log.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MediaConfigured reports whether all three media host credentials are present.
func (c *Config) MediaConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
