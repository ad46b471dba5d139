package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	templatedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoicetemplate/domain"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db/option"
	"github.com/smallbiznis/uemoa-invoicer/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[templatedomain.DocumentTemplate]
}

func Provide(db *gorm.DB) templatedomain.Repository {
	return &repo{store: repository.ProvideStore[templatedomain.DocumentTemplate](db)}
}

func (r *repo) Create(ctx context.Context, tmpl *templatedomain.DocumentTemplate) error {
	return r.store.Create(ctx, tmpl)
}

func (r *repo) FindDefault(ctx context.Context, orgID snowflake.ID, kind templatedomain.Kind) (*templatedomain.DocumentTemplate, error) {
	return r.store.FindOne(ctx,
		&templatedomain.DocumentTemplate{OrgID: orgID, Kind: kind},
		option.WithWhere("is_default = ?", true),
		option.WithOrder("updated_at DESC"),
	)
}
