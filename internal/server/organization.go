package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	organizationdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	"github.com/smallbiznis/uemoa-invoicer/internal/tenant"
)

type complianceRulesResponse struct {
	Country string          `json:"country"`
	Adapter compliance.Kind `json:"adapter"`
	Rules   compliance.Rule `json:"rules"`
	UEMOA   bool            `json:"uemoa"`
}

func (s *Server) GetOrganization(c *gin.Context) {
	org, ok := orgcontext.OrganizationFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenant.ErrTenantNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": organizationdomain.ToResponse(org)})
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	org, ok := orgcontext.OrganizationFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenant.ErrTenantNotFound)
		return
	}

	var req organizationdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.UpdateSettings(c.Request.Context(), org.ID.String(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetComplianceRules(c *gin.Context) {
	org, ok := orgcontext.OrganizationFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenant.ErrTenantNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rulesFor(org.CountryCode)})
}

func (s *Server) GetComplianceRulesByCountry(c *gin.Context) {
	country := strings.ToUpper(strings.TrimSpace(c.Param("country")))
	if len(country) != 2 {
		AbortWithError(c, newValidationError("country", "invalid_country", "country must be an ISO 3166-1 alpha-2 code"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rulesFor(country)})
}

func rulesFor(country string) complianceRulesResponse {
	adapter := compliance.AdapterFor(country)
	return complianceRulesResponse{
		Country: strings.ToUpper(strings.TrimSpace(country)),
		Adapter: adapter.Kind(),
		Rules:   adapter.Rules(),
		UEMOA:   compliance.IsUEMOA(country),
	}
}
