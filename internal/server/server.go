package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability"
	obsmiddleware "github.com/smallbiznis/uemoa-invoicer/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/uemoa-invoicer/internal/observability/metrics"
	obstracing "github.com/smallbiznis/uemoa-invoicer/internal/observability/tracing"
	organizationdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/ratelimit"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if obsCfg.MetricsPath != "" {
		r.GET(obsCfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	return r
}

// RunHTTP binds the server lifecycle to fx.
func RunHTTP(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + s.cfg.HTTPPort,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	resolver        *tenant.Resolver
	organizationSvc organizationdomain.Service
	customerSvc     customerdomain.Service
	taxSvc          taxdomain.Service
	invoiceSvc      invoicedomain.Service
	sendLimiter     *ratelimit.SendLimiter
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Resolver        *tenant.Resolver
	OrganizationSvc organizationdomain.Service
	CustomerSvc     customerdomain.Service
	TaxSvc          taxdomain.Service
	InvoiceSvc      invoicedomain.Service
	SendLimiter     *ratelimit.SendLimiter `optional:"true"`
	ObsMetrics      *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		resolver:        p.Resolver,
		organizationSvc: p.OrganizationSvc,
		customerSvc:     p.CustomerSvc,
		taxSvc:          p.TaxSvc,
		invoiceSvc:      p.InvoiceSvc,
		sendLimiter:     p.SendLimiter,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	// Static jurisdiction rules need no tenant.
	s.engine.GET("/api/compliance/rules/:country", s.GetComplianceRulesByCountry)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.OrgContext(), s.RequireOrganization())

	// -------- Organization --------
	api.GET("/organization", s.GetOrganization)
	api.PATCH("/organization", s.UpdateOrganization)
	api.GET("/compliance/rules", s.GetComplianceRules)

	// -------- Customers --------
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)

	// -------- Taxes --------
	api.GET("/taxes", s.ListTaxes)
	api.POST("/taxes", s.CreateTax)

	// -------- Invoices --------
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.GET("/invoices/:id/totals", s.GetInvoiceTotals)
	api.GET("/invoices/:id/validation", s.ValidateInvoice)
	api.POST("/invoices/:id/number", s.AssignInvoiceNumber)
	api.POST("/invoices/:id/send_email", s.InvoiceSendRateLimit(), s.SendInvoice)
	api.GET("/invoices/:id/whatsapp", s.GetInvoiceWhatsappLink)

	// -------- Quotes --------
	api.POST("/quotes", s.CreateQuote)
	api.GET("/quotes/:id", s.GetQuoteByID)
	api.GET("/quotes/:id/totals", s.GetQuoteTotals)
	api.POST("/quotes/:id/invoice", s.ConvertQuote)
}
