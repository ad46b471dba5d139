package compute

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func vat(rate string) TaxConfig { return TaxConfig{Enabled: true, DefaultRate: d(rate)} }

func TestComputeSingleLine(t *testing.T) {
	totals, err := Compute(Input{
		Lines: []Line{{Quantity: d("2"), UnitPrice: d("1500.00")}},
		Tax:   vat("18"),
	})
	require.NoError(t, err)

	assert.Equal(t, "3000.00", Format(totals.Subtotal))
	assert.Equal(t, "540.00", Format(totals.TaxTotal))
	assert.Equal(t, "3540.00", Format(totals.GrandTotal))
	require.Len(t, totals.Lines, 1)
	assert.Equal(t, "3000.00", Format(totals.Lines[0].Rounded))
}

func TestComputeNoLines(t *testing.T) {
	totals, err := Compute(Input{Tax: vat("18")})
	require.NoError(t, err)

	assert.Equal(t, "0.00", Format(totals.Subtotal))
	assert.Equal(t, "0.00", Format(totals.TaxTotal))
	assert.Equal(t, "0.00", Format(totals.GrandTotal))
	assert.Empty(t, totals.Lines)
}

func TestComputeTaxDisabled(t *testing.T) {
	totals, err := Compute(Input{
		Lines: []Line{
			{Quantity: d("3"), UnitPrice: d("1000.50")},
			{Quantity: d("1"), UnitPrice: d("250.25")},
		},
		Tax: TaxConfig{Enabled: false, DefaultRate: d("18")},
	})
	require.NoError(t, err)

	assert.Equal(t, "3251.75", Format(totals.Subtotal))
	assert.True(t, totals.TaxTotal.IsZero())
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal))
}

func TestComputeRoundsHalfToEven(t *testing.T) {
	// 0.25 * 0.50 = 0.125 -> 0.12 ; 0.75 * 0.50 = 0.375 -> 0.38
	totals, err := Compute(Input{Lines: []Line{{Quantity: d("0.25"), UnitPrice: d("0.50")}}})
	require.NoError(t, err)
	assert.Equal(t, "0.12", Format(totals.Subtotal))

	totals, err = Compute(Input{Lines: []Line{{Quantity: d("0.75"), UnitPrice: d("0.50")}}})
	require.NoError(t, err)
	assert.Equal(t, "0.38", Format(totals.Subtotal))
}

func TestComputeAggregatesUnroundedLines(t *testing.T) {
	// Each line is 0.125; rounding lines first would give 0.24.
	totals, err := Compute(Input{
		Lines: []Line{
			{Quantity: d("0.25"), UnitPrice: d("0.50")},
			{Quantity: d("0.25"), UnitPrice: d("0.50")},
		},
		Tax: vat("18"),
	})
	require.NoError(t, err)

	assert.Equal(t, "0.25", Format(totals.Subtotal))
	assert.Equal(t, "0.12", Format(totals.Lines[0].Rounded))
	// 0.25 * 18% = 0.045 -> 0.04
	assert.Equal(t, "0.04", Format(totals.TaxTotal))
	assert.Equal(t, "0.29", Format(totals.GrandTotal))
}

func TestComputeIsDeterministic(t *testing.T) {
	rate := d("18")
	in := Input{
		Lines: []Line{
			{Quantity: d("1.5"), UnitPrice: d("999.99"), TaxRate: &rate},
			{Quantity: d("7"), UnitPrice: d("12.34")},
		},
		Tax: vat("18"),
	}

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxTotal.Equal(second.TaxTotal))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.Same(t, &rate, first.Lines[0].TaxRate)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	negative := d("-1")
	cases := []struct {
		name string
		in   Input
	}{
		{name: "negative quantity", in: Input{Lines: []Line{{Quantity: d("-1"), UnitPrice: d("10")}}}},
		{name: "negative price", in: Input{Lines: []Line{{Quantity: d("1"), UnitPrice: d("-10")}}}},
		{name: "negative line rate", in: Input{Lines: []Line{{Quantity: d("1"), UnitPrice: d("10"), TaxRate: &negative}}}},
		{name: "negative default rate", in: Input{Tax: TaxConfig{Enabled: true, DefaultRate: d("-18")}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.in)
			assert.ErrorIs(t, err, ErrInputInvalid)
		})
	}
}
