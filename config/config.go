package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	OAuth      OAuthConfig      `yaml:"oauth"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Redis      RedisConfig      `yaml:"redis"`
	Mail       MailConfig       `yaml:"mail"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Firebase   FirebaseConfig   `yaml:"firebase"`
	Log        LogConfig        `yaml:"log"`
	Site       SiteConfig       `yaml:"site"`
	Admin      AdminSeedConfig  `yaml:"admin"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" validate:"required"`
	Env            string        `yaml:"env" validate:"required,oneof=development test production"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int           `yaml:"rate_limit_burst" validate:"gt=0"`
	// ContactPerHour caps contact form submissions per client IP.
	ContactPerHour int `yaml:"contact_per_hour" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"required,oneof=mysql postgres sqlite"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret" validate:"required"`
	RefreshSecret string        `yaml:"refresh_secret" validate:"required"`
	AccessExpiry  time.Duration `yaml:"access_expiry" validate:"gt=0"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry" validate:"gt=0"`
	Issuer        string        `yaml:"issuer"`
}

type OAuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

// Enabled reports whether uploads can be sent to Cloudinary.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PageTTL  time.Duration `yaml:"page_ttl"`
}

type MailConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	From            string   `yaml:"from" validate:"omitempty,email"`
	FromName        string   `yaml:"from_name"`
	AdminRecipients []string `yaml:"admin_recipients" validate:"dive,email"`
	TLS             bool     `yaml:"tls"`
}

// Enabled reports whether an SMTP relay is configured.
func (c MailConfig) Enabled() bool { return c.Host != "" && c.From != "" }

type YouTubeConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	RPS     int    `yaml:"rps"`
}

type FirebaseConfig struct {
	ServiceAccountPath string `yaml:"service_account_path"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type SiteConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// AdminSeedConfig is the first admin account created on an empty database.
type AdminSeedConfig struct {
	Email    string `yaml:"email" validate:"omitempty,email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

const (
	defaultAccessSecret  = "change-me-in-production"
	defaultRefreshSecret = "change-me-refresh"
)

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			ContactPerHour: 5,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			DSN:             "root:root@tcp(localhost:3306)/corpsite?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  defaultAccessSecret,
			RefreshSecret: defaultRefreshSecret,
			AccessExpiry:  30 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "corpsite",
		},
		Redis: RedisConfig{
			PageTTL: 10 * time.Minute,
		},
		Mail: MailConfig{
			Port:     587,
			FromName: "Website",
			TLS:      true,
		},
		YouTube: YouTubeConfig{
			BaseURL: "https://youtube.googleapis.com/",
			RPS:     5,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Site: SiteConfig{
			Name:    "Corporate Site",
			BaseURL: "http://localhost:3000",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, an optional .env file and finally the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *Config) {
	str(&c.Server.Port, "PORT")
	str(&c.Server.Env, "APP_ENV")
	list(&c.Server.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	dur(&c.Server.ReadTimeout, "HTTP_READ_TIMEOUT")
	dur(&c.Server.WriteTimeout, "HTTP_WRITE_TIMEOUT")
	num(&c.Server.ContactPerHour, "CONTACT_PER_HOUR")

	str(&c.Database.Driver, "DB_DRIVER")
	str(&c.Database.DSN, "DB_DSN")
	num(&c.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	num(&c.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")

	str(&c.JWT.AccessSecret, "JWT_ACCESS_SECRET")
	str(&c.JWT.RefreshSecret, "JWT_REFRESH_SECRET")
	dur(&c.JWT.AccessExpiry, "JWT_ACCESS_EXPIRY")
	dur(&c.JWT.RefreshExpiry, "JWT_REFRESH_EXPIRY")

	str(&c.OAuth.GoogleClientID, "GOOGLE_CLIENT_ID")
	str(&c.OAuth.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	str(&c.OAuth.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")

	str(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	str(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	str(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	str(&c.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	str(&c.Redis.Addr, "REDIS_ADDR")
	str(&c.Redis.Password, "REDIS_PASSWORD")
	num(&c.Redis.DB, "REDIS_DB")
	dur(&c.Redis.PageTTL, "CACHE_PAGE_TTL")

	str(&c.Mail.Host, "SMTP_HOST")
	num(&c.Mail.Port, "SMTP_PORT")
	str(&c.Mail.Username, "SMTP_USERNAME")
	str(&c.Mail.Password, "SMTP_PASSWORD")
	str(&c.Mail.From, "MAIL_FROM")
	str(&c.Mail.FromName, "MAIL_FROM_NAME")
	list(&c.Mail.AdminRecipients, "MAIL_ADMIN_RECIPIENTS")

	str(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	str(&c.YouTube.BaseURL, "YOUTUBE_BASE_URL")

	str(&c.Firebase.ServiceAccountPath, "FIREBASE_SERVICE_ACCOUNT_PATH")

	str(&c.Log.Level, "LOG_LEVEL")
	str(&c.Log.File, "LOG_FILE")

	str(&c.Site.Name, "SITE_NAME")
	str(&c.Site.BaseURL, "SITE_BASE_URL")

	str(&c.Admin.Email, "ADMIN_EMAIL")
	str(&c.Admin.Password, "ADMIN_PASSWORD")
	str(&c.Admin.Name, "ADMIN_NAME")
}

// Validate checks field constraints and refuses development secrets in production.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.IsProduction() && (c.JWT.AccessSecret == defaultAccessSecret || c.JWT.RefreshSecret == defaultRefreshSecret) {
		return fmt.Errorf("invalid config: JWT secrets must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func num(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func dur(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func list(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
