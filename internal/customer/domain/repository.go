package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	// FindByID returns nil, nil when the customer does not belong to orgID.
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Customer, error)
}
