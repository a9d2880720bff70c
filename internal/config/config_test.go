package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, "invoice-generator", cfg.App.Name)
	require.Equal(t, "127.0.0.1:8080", cfg.App.Addr)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, filepath.Join(DefaultDataDir(), "invoices.db"), cfg.Database.Path)
	require.Equal(t, filepath.Join(DefaultDataDir(), "invoices"), cfg.Document.OutputDir)
	require.Equal(t, "Thanks For Shopping!", cfg.Document.Footer)
	require.Len(t, cfg.Document.CompanyLines, 4)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "app.env")
	content := "DB_DRIVER=POSTGRES\nOUTPUT_DIR=/tmp/invoices\nCOMPANY_LINES=Line one| Line two |\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg := load(viper.New(), envFile)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "/tmp/invoices", cfg.Document.OutputDir)
	require.Equal(t, []string{"Line one", "Line two"}, cfg.Document.CompanyLines)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "127.0.0.1:9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://127.0.0.1:5173")

	cfg := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, "127.0.0.1:9090", cfg.App.Addr)
	require.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LogConfig{Level: "debug", Format: "json"})
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = NewLogger(LogConfig{Level: "loud"})
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	require.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
