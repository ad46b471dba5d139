// Package domain contains persistence models for the org service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	DefaultCountryCode = "BJ"
	DefaultCurrency    = "XOF"
	DefaultBrandColor  = "#111827"

	MetadataBrandColor = "brand_color"
	MetadataLogoURL    = "logo_url"
)

// DefaultTaxRate is the VAT percentage applied when an organization does not
// configure its own.
var DefaultTaxRate = decimal.NewFromInt(18)

// Organization represents a tenant. OrgCode is the routing key used to resolve
// requests and never changes after creation.
type Organization struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"type:text;not null" json:"name"`
	OrgCode        string            `gorm:"type:text;not null;column:org_code;uniqueIndex:ux_organizations_org_code" json:"org_code"`
	CountryCode    string            `gorm:"type:text;not null;column:country_code;default:'BJ'" json:"country_code"`
	Currency       string            `gorm:"type:text;not null;default:'XOF'" json:"currency"`
	Address        string            `gorm:"type:text" json:"address"`
	TradeRegister  string            `gorm:"type:text;column:trade_register" json:"trade_register"`
	TaxID          string            `gorm:"type:text;column:tax_id" json:"tax_id"`
	TaxEnabled     bool              `gorm:"column:tax_enabled;not null" json:"tax_enabled"`
	DefaultTaxRate decimal.Decimal   `gorm:"type:numeric(5,2);column:default_tax_rate;not null" json:"default_tax_rate"`
	WhatsappNumber string            `gorm:"type:text;column:whatsapp_number" json:"whatsapp_number"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// BrandColor returns the configured brand color or the default one.
func (o Organization) BrandColor() string {
	if v := o.metadataString(MetadataBrandColor); v != "" {
		return v
	}
	return DefaultBrandColor
}

// LogoURL returns the configured logo URL, if any.
func (o Organization) LogoURL() string {
	return o.metadataString(MetadataLogoURL)
}

func (o Organization) metadataString(key string) string {
	if o.Metadata == nil {
		return ""
	}
	if v, ok := o.Metadata[key].(string); ok {
		return v
	}
	return ""
}
