package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/smallbiznis/uemoa-invoicer/internal/config"
)

const (
	defaultServiceName = "uemoa-invoicer"
	defaultMetricsPath = "/metrics"
)

// Config holds the logging, tracing and metrics settings of the invoicer.
// Service identity comes from config.Config; the rest from OTEL_*, LOG_* and
// METRICS_* variables.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel              string
	LogFormat             string
	LogSamplingInitial    int
	LogSamplingThereafter int

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64

	// MetricsPath is where the Prometheus scrape handler is mounted. Empty
	// disables the handler.
	MetricsPath string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	protocol := strings.ToLower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))
	if traces := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); traces != "" {
		protocol = strings.ToLower(traces)
	}

	metricsPath := defaultMetricsPath
	if !getenvBool("METRICS_ENABLED", true) {
		metricsPath = ""
	} else if path := getenv("METRICS_PATH", defaultMetricsPath); strings.HasPrefix(path, "/") {
		metricsPath = path
	}

	return Config{
		ServiceName:           serviceName,
		Environment:           strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Version:               strings.TrimSpace(cfg.AppVersion),
		LogLevel:              strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(getenv("LOG_FORMAT", "json")),
		LogSamplingInitial:    getenvInt("LOG_SAMPLING_INITIAL", 100),
		LogSamplingThereafter: getenvInt("LOG_SAMPLING_THEREAFTER", 100),
		OtelEnabled:           getenvBool("OTEL_ENABLED", false),
		OtelExporterEndpoint:  getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
		OtelExporterProtocol:  protocol,
		OtelSamplingRatio:     getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		MetricsPath:           metricsPath,
	}
}

// Debug turns on verbose request logs and disables log sampling. Production
// only gets it through LOG_LEVEL=debug.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	return isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return parsed
}
