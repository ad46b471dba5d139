package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetByCode(ctx context.Context, code string) (*orgdomain.Organization, error) {
	args := m.Called(ctx, code)
	org, _ := args.Get(0).(*orgdomain.Organization)
	return org, args.Error(1)
}

type mapLookup map[string]*orgdomain.Organization

func (m mapLookup) GetByCode(_ context.Context, code string) (*orgdomain.Organization, error) {
	return m[code], nil
}

func orgs() mapLookup {
	return mapLookup{
		"acme":  {ID: 1, OrgCode: "acme"},
		"other": {ID: 2, OrgCode: "other"},
		"demo":  {ID: 3, OrgCode: "demo"},
	}
}

func TestResolveHeaderTakesPrecedence(t *testing.T) {
	r := New(orgs(), "", nil)

	org, source, err := r.Resolve(context.Background(), "other", "acme.facturo.app")
	require.NoError(t, err)
	assert.Equal(t, "other", org.OrgCode)
	assert.Equal(t, SourceHeader, source)
}

func TestResolveHeaderMissDoesNotFallThrough(t *testing.T) {
	lookup := &mockLookup{}
	lookup.On("GetByCode", mock.Anything, "ghost").Return(nil, nil).Once()
	r := New(lookup, "X-Org", nil)

	org, source, err := r.Resolve(context.Background(), " ghost ", "acme.facturo.app")
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Nil(t, org)
	assert.Equal(t, SourceHeader, source)
	lookup.AssertExpectations(t)
	lookup.AssertNotCalled(t, "GetByCode", mock.Anything, "acme")
}

func TestResolveFromHost(t *testing.T) {
	r := New(orgs(), "", nil)

	org, source, err := r.Resolve(context.Background(), "", "acme.facturo.app:8443")
	require.NoError(t, err)
	assert.Equal(t, "acme", org.OrgCode)
	assert.Equal(t, SourceHost, source)

	_, _, err = r.Resolve(context.Background(), "", "nobody.facturo.app")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveShortHostIsNotFound(t *testing.T) {
	lookup := &mockLookup{}
	r := New(lookup, "", nil)

	for _, host := range []string{"localhost", "localhost:8000", "facturo.app", "", "127.0.0.1:8000", "[::1]:8000"} {
		org, source, err := r.Resolve(context.Background(), "", host)
		assert.ErrorIs(t, err, ErrTenantNotFound, host)
		assert.Nil(t, org)
		assert.Equal(t, SourceNone, source)
	}
	lookup.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestResolvePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("db down")
	lookup := &mockLookup{}
	lookup.On("GetByCode", mock.Anything, "acme").Return(nil, boom)
	r := New(lookup, "", nil)

	_, _, err := r.Resolve(context.Background(), "acme", "")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveRequestFallback(t *testing.T) {
	r := New(orgs(), "", nil)

	_, _, err := r.ResolveRequest(context.Background(), "", "localhost")
	assert.ErrorIs(t, err, ErrTenantNotFound)

	withFallback := r.WithFallback("demo")
	org, source, err := withFallback.ResolveRequest(context.Background(), "", "localhost")
	require.NoError(t, err)
	assert.Equal(t, "demo", org.OrgCode)
	assert.Equal(t, SourceFallback, source)

	org, source, err = withFallback.ResolveRequest(context.Background(), "acme", "")
	require.NoError(t, err)
	assert.Equal(t, "acme", org.OrgCode)
	assert.Equal(t, SourceHeader, source)

	_, _, err = r.WithFallback("missing").ResolveRequest(context.Background(), "", "localhost")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestNewResolverFallbackGating(t *testing.T) {
	dev := config.Config{
		Environment: "development",
		Tenancy:     config.TenancyConfig{Header: "X-Org", DefaultOrgForDevOnly: true, DefaultOrgCode: "demo"},
	}
	r := NewResolver(Params{Lookup: nil, Config: dev, Log: zap.NewNop()})
	assert.Equal(t, "demo", r.fallbackCode)

	prod := dev
	prod.Environment = config.EnvironmentProduction
	r = NewResolver(Params{Config: prod, Log: zap.NewNop()})
	assert.Empty(t, r.fallbackCode)

	off := dev
	off.Tenancy.DefaultOrgForDevOnly = false
	r = NewResolver(Params{Config: off, Log: zap.NewNop()})
	assert.Empty(t, r.fallbackCode)
}

func TestCodeFromHost(t *testing.T) {
	cases := map[string]string{
		"acme.facturo.app":       "acme",
		"ACME.facturo.app":       "acme",
		"acme.facturo.app.":      "acme",
		"acme.eu.facturo.app:80": "acme",
	}
	for host, want := range cases {
		got, ok := CodeFromHost(host)
		assert.True(t, ok, host)
		assert.Equal(t, want, got, host)
	}

	for _, host := range []string{"facturo.app", "localhost", ".facturo.app", "10.0.0.1"} {
		_, ok := CodeFromHost(host)
		assert.False(t, ok, host)
	}
}
