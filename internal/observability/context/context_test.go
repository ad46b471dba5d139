package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background(), "")
	assert.Len(t, cid, 26)
	assert.Equal(t, cid, CorrelationIDFromContext(ctx))

	ctx, again := EnsureCorrelationID(ctx, "")
	assert.Equal(t, cid, again)

	_, provided := EnsureCorrelationID(ctx, " abc ")
	assert.Equal(t, "abc", provided)
}

func TestOrgFromContext(t *testing.T) {
	id, code := OrgFromContext(context.Background())
	assert.Empty(t, id)
	assert.Empty(t, code)

	ctx := WithOrg(context.Background(), "42", "acme")
	id, code = OrgFromContext(ctx)
	assert.Equal(t, "42", id)
	assert.Equal(t, "acme", code)
}
