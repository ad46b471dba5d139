package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func NewService(p serviceParams) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, taxdomain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]taxdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, taxdomain.ErrInvalidOrganization
	}

	now := time.Now().UTC()
	tax := &taxdomain.Tax{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate.Round(2),
		IsInclusive: req.IsInclusive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tax.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tax); err != nil {
		return nil, err
	}

	s.log.Info("tax created", zap.String("org_id", orgID.String()), zap.String("tax_id", tax.ID.String()))
	resp := toResponse(tax)
	return &resp, nil
}

func toResponse(t *taxdomain.Tax) taxdomain.Response {
	return taxdomain.Response{
		ID:             t.ID.String(),
		OrganizationID: t.OrgID.String(),
		Name:           t.Name,
		Rate:           t.Rate.StringFixed(2),
		IsInclusive:    t.IsInclusive,
		CreatedAt:      t.CreatedAt,
	}
}
