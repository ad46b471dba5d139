// Package tenant maps an inbound request to the organization it targets.
package tenant

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrTenantNotFound means no organization matches the request.
var ErrTenantNotFound = errors.New("tenant_not_found")

// DefaultHeader carries an explicit organization code.
const DefaultHeader = "X-Org"

// Source records how an organization was resolved.
type Source string

const (
	SourceHeader   Source = "header"
	SourceHost     Source = "host"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Lookup finds an organization by exact code, returning nil, nil on a miss.
type Lookup interface {
	GetByCode(ctx context.Context, code string) (*orgdomain.Organization, error)
}

type Params struct {
	fx.In

	Lookup orgdomain.Service
	Config config.Config
	Log    *zap.Logger
}

type Resolver struct {
	lookup       Lookup
	header       string
	fallbackCode string
	log          *zap.Logger
}

// NewResolver builds a resolver from configuration. The dev fallback is only
// armed when explicitly enabled outside production.
func NewResolver(p Params) *Resolver {
	log := p.Log.Named("tenant.resolver")
	r := New(p.Lookup, p.Config.Tenancy.Header, log)

	switch {
	case p.Config.DevFallbackEnabled():
		r.fallbackCode = p.Config.Tenancy.DefaultOrgCode
		log.Warn("unresolved requests fall back to a default organization",
			zap.String("org_code", r.fallbackCode),
			zap.String("environment", p.Config.Environment),
		)
	case p.Config.Tenancy.DefaultOrgForDevOnly && p.Config.IsProduction():
		log.Warn("DEFAULT_ORG_FOR_DEV_ONLY is ignored in production")
	}
	return r
}

// New builds a strict resolver with no fallback.
func New(lookup Lookup, header string, log *zap.Logger) *Resolver {
	header = strings.TrimSpace(header)
	if header == "" {
		header = DefaultHeader
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, header: header, log: log}
}

// WithFallback returns a copy that resolves misses to the organization
// with the given code.
func (r *Resolver) WithFallback(code string) *Resolver {
	cp := *r
	cp.fallbackCode = strings.TrimSpace(code)
	return &cp
}

// Header is the request header name carrying an explicit org code.
func (r *Resolver) Header() string { return r.header }

// Resolve applies the strict rules: a non-empty header is an exact lookup
// and never falls through to the host; otherwise a host with more than two
// labels uses its first label as the code. Misses return ErrTenantNotFound.
func (r *Resolver) Resolve(ctx context.Context, headerValue, host string) (*orgdomain.Organization, Source, error) {
	if code := strings.TrimSpace(headerValue); code != "" {
		org, err := r.find(ctx, code)
		return org, SourceHeader, err
	}

	if code, ok := CodeFromHost(host); ok {
		org, err := r.find(ctx, code)
		return org, SourceHost, err
	}

	return nil, SourceNone, ErrTenantNotFound
}

// ResolveRequest is Resolve followed by the configured fallback, if any.
func (r *Resolver) ResolveRequest(ctx context.Context, headerValue, host string) (*orgdomain.Organization, Source, error) {
	org, source, err := r.Resolve(ctx, headerValue, host)
	if !errors.Is(err, ErrTenantNotFound) || r.fallbackCode == "" {
		return org, source, err
	}

	org, ferr := r.find(ctx, r.fallbackCode)
	if ferr != nil {
		if errors.Is(ferr, ErrTenantNotFound) {
			r.log.Warn("fallback organization not found", zap.String("org_code", r.fallbackCode))
		}
		return nil, source, ferr
	}
	return org, SourceFallback, nil
}

func (r *Resolver) find(ctx context.Context, code string) (*orgdomain.Organization, error) {
	org, err := r.lookup.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrTenantNotFound
	}
	return org, nil
}

// CodeFromHost extracts the candidate org code from a Host value: the
// first label of a name with more than two labels, port removed. IP
// literals never yield a code.
func CodeFromHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}

	labels := strings.Split(host, ".")
	if len(labels) <= 2 || labels[0] == "" {
		return "", false
	}
	return labels[0], true
}
