// Package context carries request-scoped correlation identifiers.
package context

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

type requestIDKey struct{}
type correlationIDKey struct{}
type orgKey struct{}

type orgFields struct {
	id   string
	code string
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(id))
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// EnsureCorrelationID guarantees a correlation ID on the context, generating
// a ULID when the caller did not provide one.
func EnsureCorrelationID(ctx context.Context, provided string) (context.Context, string) {
	cid := strings.TrimSpace(provided)
	if cid == "" {
		cid = CorrelationIDFromContext(ctx)
	}
	if cid == "" {
		cid = ulid.Make().String()
	}
	return context.WithValue(ctx, correlationIDKey{}, cid), cid
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey{})
}

// WithOrg records the resolved tenant for log enrichment.
func WithOrg(ctx context.Context, orgID, orgCode string) context.Context {
	return context.WithValue(ctx, orgKey{}, orgFields{id: orgID, code: orgCode})
}

func OrgFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	v, _ := ctx.Value(orgKey{}).(orgFields)
	return v.id, v.code
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
