// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

// QuoteStatus represents quote lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

// Invoice is a billing document owned by one organization. Number is unique
// per organization once assigned and stays empty on unnumbered drafts.
type Invoice struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_invoices_org_number,priority:1,where:number <> ''" json:"org_id"`
	Number     string        `gorm:"type:text;not null;default:'';uniqueIndex:ux_invoices_org_number,priority:2,where:number <> ''" json:"number"`
	CustomerID snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	QuoteID    *snowflake.ID `gorm:"uniqueIndex:ux_invoices_quote_id,where:quote_id IS NOT NULL" json:"quote_id,omitempty"`
	IssueDate  *time.Time    `json:"issue_date,omitempty"`
	DueDate    *time.Time    `json:"due_date,omitempty"`
	Currency   string        `gorm:"type:text;not null" json:"currency"`
	Status     InvoiceStatus `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	Notes      string        `gorm:"type:text" json:"notes"`
	Lines      []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one priced row of an invoice.
type InvoiceLine struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null" json:"position"`
	ProductID   *snowflake.ID   `gorm:"index" json:"product_id,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TaxID       *snowflake.ID   `gorm:"index" json:"tax_id,omitempty"`
	Tax         *taxdomain.Tax  `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// Quote is a priced offer that shares the invoice computation rules. Number
// is chosen by the organization and unique within it. A quote converts into
// at most one invoice.
type Quote struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index;uniqueIndex:ux_quotes_org_number,priority:1" json:"org_id"`
	Number     string       `gorm:"type:text;not null;uniqueIndex:ux_quotes_org_number,priority:2" json:"number"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	IssueDate  time.Time    `gorm:"not null" json:"issue_date"`
	ValidUntil *time.Time   `json:"valid_until,omitempty"`
	Currency   string       `gorm:"type:text;not null" json:"currency"`
	Status     QuoteStatus  `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	Notes      string       `gorm:"type:text" json:"notes"`
	Lines      []QuoteLine  `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

type QuoteLine struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	QuoteID     snowflake.ID    `gorm:"not null;index" json:"quote_id"`
	Position    int             `gorm:"not null" json:"position"`
	ProductID   *snowflake.ID   `gorm:"index" json:"product_id,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TaxID       *snowflake.ID   `gorm:"index" json:"tax_id,omitempty"`
	Tax         *taxdomain.Tax  `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
}

// TableName sets the database table name.
func (QuoteLine) TableName() string { return "quote_lines" }

// InvoiceSequence tracks the last number issued per organization and year.
type InvoiceSequence struct {
	OrgID     snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Year      int          `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64        `gorm:"not null"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }
