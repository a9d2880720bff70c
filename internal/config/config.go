package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Document DocumentConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name string
	Env  string
	// Addr is the listen address of the UI shell. It stays on loopback.
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// DocumentConfig carries the branding printed on every invoice and where the PDFs go
type DocumentConfig struct {
	OutputDir    string
	CompanyName  string
	CompanyLines []string
	Title        string
	Footer       string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// DefaultDataDir is where the database and PDFs live unless configured otherwise
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents", "Invoice Generator")
}

func Load() *Config {
	return load(viper.GetViper(), ".env")
}

func load(v *viper.Viper, envFile string) *Config {
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Warnf("%s file not found, using environment variables: %v", envFile, err)
	}

	dataDir := DefaultDataDir()

	// Set defaults
	v.SetDefault("APP_NAME", "invoice-generator")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_ADDR", "127.0.0.1:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", filepath.Join(dataDir, "invoices.db"))
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "invoices")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("OUTPUT_DIR", filepath.Join(dataDir, "invoices"))
	v.SetDefault("COMPANY_NAME", "My Company Pvt Ltd")
	v.SetDefault("COMPANY_LINES", "123 Business Road|City, State ZIP|Phone: +91 99999 99999|GSTIN: 1234ABCDE")
	v.SetDefault("DOCUMENT_TITLE", "INVOICE")
	v.SetDefault("DOCUMENT_FOOTER", "Thanks For Shopping!")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	return &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
			Addr: v.GetString("APP_ADDR"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Document: DocumentConfig{
			OutputDir:    v.GetString("OUTPUT_DIR"),
			CompanyName:  v.GetString("COMPANY_NAME"),
			CompanyLines: splitList(v.GetString("COMPANY_LINES"), "|"),
			Title:        v.GetString("DOCUMENT_TITLE"),
			Footer:       v.GetString("DOCUMENT_FOOTER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
	}
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
