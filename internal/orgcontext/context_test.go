package orgcontext

import (
	"context"
	"testing"

	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrganizationFromContext(t *testing.T) {
	_, ok := OrganizationFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithOrganization(context.Background(), nil)
	_, ok = OrganizationFromContext(ctx)
	assert.False(t, ok)

	org := &orgdomain.Organization{ID: 7, OrgCode: "acme"}
	ctx = WithOrganization(context.Background(), org)
	got, ok := OrganizationFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, org, got)

	id, ok := OrgIDFromContext(ctx)
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)
}
