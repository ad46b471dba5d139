package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	// GetByCode returns the organization with exactly this code, or nil.
	GetByCode(ctx context.Context, code string) (*Organization, error)
	UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (*OrganizationResponse, error)
}

type CreateOrganizationRequest struct {
	Name           string
	OrgCode        string
	CountryCode    string
	Currency       string
	Address        string
	TradeRegister  string
	TaxID          string
	TaxEnabled     *bool
	DefaultTaxRate *decimal.Decimal
	WhatsappNumber string
}

// UpdateSettingsRequest carries the mutable settings. Nil fields are left
// untouched. The org code is intentionally absent.
type UpdateSettingsRequest struct {
	Name           *string          `json:"name"`
	Address        *string          `json:"address"`
	TradeRegister  *string          `json:"trade_register"`
	TaxID          *string          `json:"tax_id"`
	TaxEnabled     *bool            `json:"tax_enabled"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	WhatsappNumber *string          `json:"whatsapp_number"`
	BrandColor     *string          `json:"brand_color"`
	LogoURL        *string          `json:"logo_url"`
}

type OrganizationResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OrgCode        string    `json:"org_code"`
	CountryCode    string    `json:"country_code"`
	Currency       string    `json:"currency"`
	Address        string    `json:"address"`
	TradeRegister  string    `json:"trade_register"`
	TaxID          string    `json:"tax_id"`
	TaxEnabled     bool      `json:"tax_enabled"`
	DefaultTaxRate string    `json:"default_tax_rate"`
	WhatsappNumber string    `json:"whatsapp_number"`
	BrandColor     string    `json:"brand_color"`
	LogoURL        string    `json:"logo_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse maps the persistence model to its API shape.
func ToResponse(org *Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:             org.ID.String(),
		Name:           org.Name,
		OrgCode:        org.OrgCode,
		CountryCode:    org.CountryCode,
		Currency:       org.Currency,
		Address:        org.Address,
		TradeRegister:  org.TradeRegister,
		TaxID:          org.TaxID,
		TaxEnabled:     org.TaxEnabled,
		DefaultTaxRate: org.DefaultTaxRate.StringFixed(2),
		WhatsappNumber: org.WhatsappNumber,
		BrandColor:     org.BrandColor(),
		LogoURL:        org.LogoURL(),
		CreatedAt:      org.CreatedAt,
	}
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidOrgCode      = errors.New("invalid_org_code")
	ErrInvalidCountry      = errors.New("invalid_country")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidBrandColor   = errors.New("invalid_brand_color")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrDuplicateOrgCode    = errors.New("duplicate_org_code")
	ErrNotFound            = errors.New("organization_not_found")
)
