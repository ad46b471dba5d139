package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/uemoa-invoicer/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestForInvoiceCarriesOrgAndInvoice(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := obscontext.WithOrg(context.Background(), "100", "acme")

	ForInvoice(ctx, zap.New(core), " 42 ", "FAC-BJ-2026-000001").Info("invoice sent")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "100", fields["org_id"])
	assert.Equal(t, "acme", fields["org_code"])
	assert.Equal(t, "42", fields["invoice_id"])
	assert.Equal(t, "FAC-BJ-2026-000001", fields["invoice_number"])
}

func TestForInvoiceWithoutNumber(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ForInvoice(context.Background(), zap.New(core), "42", " ").Warn("lock")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "42", fields["invoice_id"])
	assert.NotContains(t, fields, "invoice_number")
	assert.Nil(t, ForInvoice(context.Background(), nil, "42", ""))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	assert.Error(t, err)

	log, err := New(nil, Config{Level: "debug", Debug: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}
