package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	"github.com/smallbiznis/uemoa-invoicer/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Customer]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Customer](db)}
}

func (r *repo) Create(ctx context.Context, customer *domain.Customer) error {
	return r.store.Create(ctx, customer)
}

func (r *repo) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Customer, error) {
	if orgID == 0 || id == 0 {
		return nil, nil
	}
	return r.store.FindOne(ctx, &domain.Customer{ID: id, OrgID: orgID})
}
