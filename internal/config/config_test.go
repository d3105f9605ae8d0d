package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "ws://localhost:8001", cfg.Recognition.FeedURL)
	assert.Equal(t, 5*time.Second, cfg.Recognition.ReconnectDelay)
	assert.Equal(t, 30*time.Second, cfg.Recognition.Cooldown)
	assert.Equal(t, 8, cfg.Attendance.WorkingHours)
	assert.Equal(t, "09:00", cfg.Attendance.WorkStartTime)
	assert.Equal(t, "17:00", cfg.Attendance.WorkEndTime)
	assert.Equal(t, "faces", cfg.Storage.FacesBucket)
	assert.False(t, cfg.OAuth2Google.Enabled())
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RECOGNITION_RECONNECT_DELAY", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECOGNITION_RECONNECT_DELAY")
}

func TestLoad_GoogleRequiresSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLIENT_ID", "client")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_SECRET")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "att", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/att?sslmode=disable", cfg.DatabaseURL())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{App: AppConfig{LogLevel: in}}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b,,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvSlice("TEST_SLICE"))
	assert.Empty(t, getEnvSlice("TEST_SLICE_UNSET"))
}
