package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

	OTLPEndpoint string

	Tenancy  TenancyConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	SendRate RateConfig
	PDF      PDFConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// TenancyConfig controls how requests are mapped to organizations.
type TenancyConfig struct {
	Header string
	// DefaultOrgForDevOnly opts in to resolving unresolved requests to
	// DefaultOrgCode. Never honoured in production.
	DefaultOrgForDevOnly bool
	DefaultOrgCode       string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PDFConfig selects how invoice PDFs are produced. The "maroto" engine lays
// the document out natively; "chromium" prints the rendered HTML template.
type PDFConfig struct {
	Engine          string
	ChromeRemoteURL string
	ChromeNoSandbox bool
	TimeoutSeconds  int
}

const (
	PDFEngineMaroto   = "maroto"
	PDFEngineChromium = "chromium"
)

// RateConfig is a token bucket definition: Rate tokens per second, Burst capacity.
type RateConfig struct {
	Rate  float64
	Burst int
}

const EnvironmentProduction = "production"

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "uemoa-invoicer"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  strings.ToLower(getenv("ENVIRONMENT", "development")),
		HTTPPort:     getenv("PORT", "8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		Tenancy: TenancyConfig{
			Header:               getenv("TENANT_HEADER", "X-Org"),
			DefaultOrgForDevOnly: getenvBool("DEFAULT_ORG_FOR_DEV_ONLY", false),
			DefaultOrgCode:       strings.TrimSpace(getenv("DEFAULT_ORG_CODE", "")),
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			Port:     int(getenvInt64("SMTP_PORT", 587)),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "factures@localhost"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       int(getenvInt64("REDIS_DB", 0)),
		},
		SendRate: RateConfig{
			Rate:  getenvFloat("SEND_EMAIL_RATE", 0.2),
			Burst: int(getenvInt64("SEND_EMAIL_BURST", 5)),
		},
		PDF: PDFConfig{
			Engine:          strings.ToLower(getenv("PDF_ENGINE", PDFEngineMaroto)),
			ChromeRemoteURL: strings.TrimSpace(getenv("CHROME_REMOTE_URL", "")),
			ChromeNoSandbox: getenvBool("CHROME_NO_SANDBOX", false),
			TimeoutSeconds:  int(getenvInt64("PDF_TIMEOUT_SECONDS", 30)),
		},
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "invoicer"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 10)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 50)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// DevFallbackEnabled reports whether unresolved tenants fall back to the
// configured default organization.
func (c Config) DevFallbackEnabled() bool {
	if c.IsProduction() {
		return false
	}
	return c.Tenancy.DefaultOrgForDevOnly && c.Tenancy.DefaultOrgCode != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
