package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Tax is an org-scoped tax a line can reference. Rate is a percentage.
type Tax struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"column:org_id;not null;index" json:"org_id"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Rate        decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"rate"`
	IsInclusive bool            `gorm:"column:is_inclusive;not null" json:"is_inclusive"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tax) TableName() string { return "taxes" }

func (t *Tax) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Rate.IsNegative() {
		return ErrInvalidTaxRate
	}
	return nil
}
