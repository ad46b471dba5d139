package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  customerdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  customerdomain.Repository
}

func NewService(p serviceParams) customerdomain.Service {
	return &Service{
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (*customerdomain.CustomerResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, customerdomain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, customerdomain.ErrInvalidEmail
		}
	}

	now := time.Now().UTC()
	customer := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		TaxID:     strings.TrimSpace(req.TaxID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created", zap.String("org_id", orgID.String()), zap.String("customer_id", customer.ID.String()))
	return toResponse(customer), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*customerdomain.CustomerResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, customerdomain.ErrInvalidOrganization
	}
	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, customerdomain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}
	return toResponse(customer), nil
}

func toResponse(c *customerdomain.Customer) *customerdomain.CustomerResponse {
	return &customerdomain.CustomerResponse{
		ID:             c.ID.String(),
		OrganizationID: c.OrgID.String(),
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		TaxID:          c.TaxID,
		CreatedAt:      c.CreatedAt,
	}
}
