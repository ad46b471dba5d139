// Package domain contains the org-owned document templates.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind is the document a template renders.
type Kind string

const (
	KindInvoice Kind = "INVOICE"
	KindQuote   Kind = "QUOTE"
	KindEmail   Kind = "EMAIL"
)

const DefaultLocale = "fr"

type DocumentTemplate struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Kind      Kind         `gorm:"type:text;not null" json:"kind"`
	Locale    string       `gorm:"type:text;not null;default:'fr'" json:"locale"`
	HTML      string       `gorm:"column:html;type:text" json:"html"`
	CSS       string       `gorm:"column:css;type:text" json:"css"`
	IsDefault bool         `gorm:"column:is_default;not null" json:"is_default"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DocumentTemplate) TableName() string { return "document_templates" }

type Repository interface {
	Create(ctx context.Context, tmpl *DocumentTemplate) error
	// FindDefault returns the most recently updated default template of a
	// kind, or nil when the organization has none.
	FindDefault(ctx context.Context, orgID snowflake.ID, kind Kind) (*DocumentTemplate, error)
}
