package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	Storage      StorageConfig
	SMTP         SMTPConfig
	Recognition  RecognitionConfig
	Attendance   AttendanceConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AccessTTL returns the parsed access token lifetime; Validate guarantees it parses.
func (j JWTConfig) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(j.AccessExpiration)
	return d
}

func (j JWTConfig) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(j.RefreshExpiration)
	return d
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	FrontendURL    string
	AllowedOrigins []string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google sign-in has been configured.
func (o OAuth2GoogleConfig) Enabled() bool {
	return o.ClientID != ""
}

type StorageConfig struct {
	Type        string
	BasePath    string
	BaseURL     string
	FacesBucket string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// RecognitionConfig describes the face-recognition service feed.
type RecognitionConfig struct {
	FeedURL        string
	ReconnectDelay time.Duration
	StatusInterval time.Duration
	Cooldown       time.Duration
	APIKey         string
}

// AttendanceConfig holds the fallbacks used when the settings table is empty.
type AttendanceConfig struct {
	WorkingHours  int
	WorkStartTime string
	WorkEndTime   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Warn(".env file not found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "face_attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	config.Storage = StorageConfig{
		Type:        getEnv("STORAGE_TYPE", "local"),
		BasePath:    getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:     getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
		FacesBucket: getEnv("STORAGE_FACES_BUCKET", "faces"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "Attendance Admin"),
	}

	config.Recognition, err = loadRecognition()
	if err != nil {
		return nil, err
	}

	workingHours, err := strconv.Atoi(getEnv("DEFAULT_WORKING_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_WORKING_HOURS: %w", err)
	}
	config.Attendance = AttendanceConfig{
		WorkingHours:  workingHours,
		WorkStartTime: getEnv("DEFAULT_WORK_START_TIME", "09:00"),
		WorkEndTime:   getEnv("DEFAULT_WORK_END_TIME", "17:00"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadRecognition() (RecognitionConfig, error) {
	durations := map[string]string{
		"RECOGNITION_RECONNECT_DELAY": "5s",
		"RECOGNITION_STATUS_INTERVAL": "30s",
		"ATTENDANCE_COOLDOWN":         "30s",
	}
	parsed := make(map[string]time.Duration, len(durations))
	for key, fallback := range durations {
		d, err := time.ParseDuration(getEnv(key, fallback))
		if err != nil {
			return RecognitionConfig{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		parsed[key] = d
	}

	return RecognitionConfig{
		FeedURL:        getEnv("RECOGNITION_WS_URL", "ws://localhost:8001"),
		ReconnectDelay: parsed["RECOGNITION_RECONNECT_DELAY"],
		StatusInterval: parsed["RECOGNITION_STATUS_INTERVAL"],
		Cooldown:       parsed["ATTENDANCE_COOLDOWN"],
		APIKey:         getEnv("RECOGNITION_API_KEY", ""),
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}

	if c.OAuth2Google.Enabled() {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("CLIENT_SECRET is required")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required")
		}
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required")
		}
	}

	if c.Attendance.WorkingHours < 1 || c.Attendance.WorkingHours > 24 {
		return fmt.Errorf("DEFAULT_WORKING_HOURS must be between 1 and 24")
	}
	if c.Recognition.ReconnectDelay <= 0 {
		return fmt.Errorf("RECOGNITION_RECONNECT_DELAY must be positive")
	}
	return nil
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Location returns the time zone used for day boundaries.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
