package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMarotoGenerateInvoice(t *testing.T) {
	p := NewMaroto()

	out, err := p.GenerateInvoice(context.Background(), Document{
		Input: render.RenderInput{
			Org:        render.OrgView{Name: "Atelier Cotonou", TradeRegister: "RB/COT/24 B 1234", TaxID: "3202400001234"},
			Invoice:    render.InvoiceView{Number: "FAC-BJ-2026-000001", Currency: "XOF", IssueDate: "2026-10-14"},
			Customer:   render.CustomerView{Name: "Client SARL"},
			Lines:      []render.LineView{{Description: "Conseil", Quantity: "2", UnitPrice: "50000.00", Total: "100000.00"}},
			Subtotal:   "100000.00",
			TaxTotal:   "18000.00",
			GrandTotal: "118000.00",
			VATLabel:   "TVA",
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestChromiumRejectsEmptyHTML(t *testing.T) {
	p := NewChromium(ChromiumConfig{RemoteURL: "ws://127.0.0.1:0"}, zap.NewNop())
	t.Cleanup(func() { _ = p.Close() })

	_, err := p.GenerateInvoice(context.Background(), Document{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLabelled(t *testing.T) {
	assert.Equal(t, "", labelled("RCCM", ""))
	assert.Equal(t, "IFU : 123", labelled("IFU", "123"))
}
