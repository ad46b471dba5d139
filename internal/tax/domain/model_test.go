package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxValidate(t *testing.T) {
	cases := []struct {
		name string
		tax  Tax
		err  error
	}{
		{name: "valid", tax: Tax{Name: "TVA", Rate: decimal.NewFromInt(18)}},
		{name: "zero rate", tax: Tax{Name: "Exonéré", Rate: decimal.Zero}},
		{name: "missing name", tax: Tax{Rate: decimal.NewFromInt(18)}, err: ErrInvalidName},
		{name: "negative rate", tax: Tax{Name: "TVA", Rate: decimal.RequireFromString("-0.01")}, err: ErrInvalidTaxRate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tax.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
