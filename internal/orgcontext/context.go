// Package orgcontext carries the organization resolved for a request.
package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
)

type orgKey struct{}

// WithOrganization attaches the resolved organization. A nil org records an
// explicit absence.
func WithOrganization(ctx context.Context, org *orgdomain.Organization) context.Context {
	return context.WithValue(ctx, orgKey{}, org)
}

// OrganizationFromContext returns the organization attached to ctx, if any.
func OrganizationFromContext(ctx context.Context) (*orgdomain.Organization, bool) {
	if ctx == nil {
		return nil, false
	}
	org, _ := ctx.Value(orgKey{}).(*orgdomain.Organization)
	return org, org != nil
}

// OrgIDFromContext returns the ID of the attached organization, if any.
func OrgIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	org, ok := OrganizationFromContext(ctx)
	if !ok || org.ID == 0 {
		return 0, false
	}
	return org.ID, true
}
