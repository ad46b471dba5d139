package server

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/uemoa-invoicer/internal/observability/context"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability/logger"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	"github.com/smallbiznis/uemoa-invoicer/internal/tenant"
	"go.uber.org/zap"
)

const (
	tenantOutcomeResolved = "resolved"
	tenantOutcomeNotFound = "not_found"
	tenantOutcomeError    = "error"
)

// OrgContext resolves the organization targeted by the request and attaches
// it to the request context. Unresolved requests continue without one.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		org, source, err := s.resolver.ResolveRequest(ctx, c.GetHeader(s.resolver.Header()), c.Request.Host)
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			s.obsMetrics.RecordTenantResolution(ctx, string(source), tenantOutcomeNotFound)
			c.Request = c.Request.WithContext(orgcontext.WithOrganization(ctx, nil))
			c.Next()
			return
		case err != nil:
			s.obsMetrics.RecordTenantResolution(ctx, string(source), tenantOutcomeError)
			logger.FromContext(ctx).Error("tenant resolution failed", zap.Error(err))
			AbortWithError(c, err)
			return
		}

		s.obsMetrics.RecordTenantResolution(ctx, string(source), tenantOutcomeResolved)
		ctx = orgcontext.WithOrganization(ctx, org)
		ctx = obscontext.WithOrg(ctx, org.ID.String(), org.OrgCode)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireOrganization rejects requests OrgContext could not attach an
// organization to.
func (s *Server) RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := orgcontext.OrganizationFromContext(c.Request.Context()); !ok {
			AbortWithError(c, tenant.ErrTenantNotFound)
			return
		}
		c.Next()
	}
}

// InvoiceSendRateLimit applies the per-organization send budget. It is a
// pass-through when no limiter is configured.
func (s *Server) InvoiceSendRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.sendLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		orgID, ok := orgcontext.OrgIDFromContext(ctx)
		if !ok {
			AbortWithError(c, tenant.ErrTenantNotFound)
			return
		}

		endpoint := normalizeRateLimitEndpoint(c)
		result, err := s.sendLimiter.AllowSend(ctx, orgID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("invoice send rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			s.obsMetrics.RecordRateLimit(ctx, orgID.String(), endpoint, "denied")
			logger.FromContext(ctx).Warn("invoice send rate limit exceeded", zap.String("endpoint", endpoint))
			retry := int(result.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordRateLimit(ctx, orgID.String(), endpoint, "allowed")
		c.Next()
	}
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if endpoint := c.FullPath(); endpoint != "" {
		return endpoint
	}
	if c.Request.URL.Path != "" {
		return c.Request.URL.Path
	}
	return "unknown"
}
