package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is the buyer an invoice is addressed to.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text" json:"email"`
	Phone     string       `gorm:"type:text" json:"phone"`
	Address   string       `gorm:"type:text" json:"address"`
	TaxID     string       `gorm:"type:text;column:tax_id" json:"tax_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
