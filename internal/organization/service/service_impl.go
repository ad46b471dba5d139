package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	countryRe  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

type ServiceParam struct {
	fx.In

	Repo  domain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
}

type service struct {
	repo  domain.Repository
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		repo:  p.Repo,
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := strings.TrimSpace(req.OrgCode)
	if code == "" {
		code = name
	}
	code = slug.Make(code)
	if code == "" {
		return nil, domain.ErrInvalidOrgCode
	}

	countryCode := normalizeUpper(req.CountryCode, domain.DefaultCountryCode)
	if !countryRe.MatchString(countryCode) {
		return nil, domain.ErrInvalidCountry
	}

	currency := normalizeUpper(req.Currency, domain.DefaultCurrency)
	if !currencyRe.MatchString(currency) {
		return nil, domain.ErrInvalidCurrency
	}

	taxEnabled := true
	if req.TaxEnabled != nil {
		taxEnabled = *req.TaxEnabled
	}

	taxRate := domain.DefaultTaxRate
	if req.DefaultTaxRate != nil {
		taxRate = *req.DefaultTaxRate
	}
	if taxRate.IsNegative() {
		return nil, domain.ErrInvalidTaxRate
	}

	now := time.Now().UTC()
	org := &domain.Organization{
		ID:             s.genID.Generate(),
		Name:           name,
		OrgCode:        code,
		CountryCode:    countryCode,
		Currency:       currency,
		Address:        strings.TrimSpace(req.Address),
		TradeRegister:  strings.TrimSpace(req.TradeRegister),
		TaxID:          strings.TrimSpace(req.TaxID),
		TaxEnabled:     taxEnabled,
		DefaultTaxRate: taxRate.Round(2),
		WhatsappNumber: strings.TrimSpace(req.WhatsappNumber),
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateOrgCode
		}
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("org_code", org.OrgCode),
		zap.String("country_code", org.CountryCode),
	)

	return domain.ToResponse(org), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.OrganizationResponse, error) {
	org, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(org), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	if code == "" {
		return nil, nil
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *service) UpdateSettings(ctx context.Context, id string, req domain.UpdateSettingsRequest) (*domain.OrganizationResponse, error) {
	org, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Address != nil {
		org.Address = strings.TrimSpace(*req.Address)
	}
	if req.TradeRegister != nil {
		org.TradeRegister = strings.TrimSpace(*req.TradeRegister)
	}
	if req.TaxID != nil {
		org.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.TaxEnabled != nil {
		org.TaxEnabled = *req.TaxEnabled
	}
	if req.DefaultTaxRate != nil {
		if req.DefaultTaxRate.IsNegative() {
			return nil, domain.ErrInvalidTaxRate
		}
		org.DefaultTaxRate = req.DefaultTaxRate.Round(2)
	}
	if req.WhatsappNumber != nil {
		org.WhatsappNumber = strings.TrimSpace(*req.WhatsappNumber)
	}

	if org.Metadata == nil {
		org.Metadata = datatypes.JSONMap{}
	}
	if req.BrandColor != nil {
		color := strings.TrimSpace(*req.BrandColor)
		if color != "" && !hexColorRe.MatchString(color) {
			return nil, domain.ErrInvalidBrandColor
		}
		setOrDelete(org.Metadata, domain.MetadataBrandColor, color)
	}
	if req.LogoURL != nil {
		setOrDelete(org.Metadata, domain.MetadataLogoURL, strings.TrimSpace(*req.LogoURL))
	}

	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	return domain.ToResponse(org), nil
}

func (s *service) load(ctx context.Context, id string) (*domain.Organization, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return nil, domain.ErrInvalidOrganization
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func normalizeUpper(value, def string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return def
	}
	return value
}

func setOrDelete(m datatypes.JSONMap, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
