package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Outcome labels shared by the domain counters.
const (
	OutcomeResolved = "resolved"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeSent     = "sent"
	OutcomeBlocked  = "blocked"
	OutcomeFailed   = "failed"
	OutcomeAllowed  = "allowed"
	OutcomeDenied   = "denied"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	tenantResolutions  metric.Int64Counter
	invoiceValidations metric.Int64Counter
	invoiceSends       metric.Int64Counter
	rateLimit          metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "uemoa-invoicer"
	}
	meter := provider.Meter(name)

	tenantResolutions, err := meter.Int64Counter("invoicer_tenant_resolutions_total")
	if err != nil {
		return nil, err
	}
	invoiceValidations, err := meter.Int64Counter("invoicer_invoice_validations_total")
	if err != nil {
		return nil, err
	}
	invoiceSends, err := meter.Int64Counter("invoicer_invoice_sends_total")
	if err != nil {
		return nil, err
	}
	rateLimit, err := meter.Int64Counter("invoicer_rate_limit_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		tenantResolutions:  tenantResolutions,
		invoiceValidations: invoiceValidations,
		invoiceSends:       invoiceSends,
		rateLimit:          rateLimit,
	}, nil
}

// RecordTenantResolution counts resolver outcomes by source (header, host, fallback).
func (m *Metrics) RecordTenantResolution(ctx context.Context, source, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("source", strings.TrimSpace(source)),
		attribute.String("outcome", outcome),
	)
	m.tenantResolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceValidation counts validator runs per compliance adapter.
func (m *Metrics) RecordInvoiceValidation(ctx context.Context, adapter, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("adapter", adapter),
		attribute.String("outcome", outcome),
	)
	m.invoiceValidations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceSend counts delivery attempts.
func (m *Metrics) RecordInvoiceSend(ctx context.Context, orgID, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.String("outcome", outcome),
	)
	m.invoiceSends.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimit counts rate limiter decisions.
func (m *Metrics) RecordRateLimit(ctx context.Context, orgID, endpoint, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("outcome", outcome),
	)
	m.rateLimit.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"org_id":   {},
	"endpoint": {},
	"source":   {},
	"adapter":  {},
	"outcome":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
