package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

type CreateRequest struct {
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	IsInclusive bool            `json:"is_inclusive"`
}

type Response struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Rate           string    `json:"rate"`
	IsInclusive    bool      `json:"is_inclusive"`
	CreatedAt      time.Time `json:"created_at"`
}
