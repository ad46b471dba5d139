// Package compute derives invoice and quote totals with fixed-point decimals.
//
// Rounding rule: round half to even at two decimals, applied only to the
// subtotal, the tax total and the grand total. Aggregates are always computed
// from unrounded line amounts.
package compute

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const scale = 2

// ErrInputInvalid reports input the engine refuses to compute.
var ErrInputInvalid = errors.New("computation_input_invalid")

var hundred = decimal.NewFromInt(100)

// Line is one priced row. TaxRate is the line's own tax percentage, if any;
// it is reported per line but the tax total uses TaxConfig.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   *decimal.Decimal
}

// TaxConfig is the organization-level tax setting.
type TaxConfig struct {
	Enabled     bool
	DefaultRate decimal.Decimal
}

type Input struct {
	Lines []Line
	Tax   TaxConfig
}

type LineTotal struct {
	// Amount is quantity times unit price, unrounded.
	Amount decimal.Decimal
	// Rounded is Amount rounded for display.
	Rounded decimal.Decimal
	TaxRate *decimal.Decimal
}

type Totals struct {
	Lines      []LineTotal
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute returns the totals for in. It is pure and total over valid input;
// negative quantities, prices or rates yield ErrInputInvalid.
func Compute(in Input) (Totals, error) {
	if in.Tax.DefaultRate.IsNegative() {
		return Totals{}, fmt.Errorf("%w: negative default tax rate %s", ErrInputInvalid, in.Tax.DefaultRate)
	}

	lines := make([]LineTotal, 0, len(in.Lines))
	sum := decimal.Zero
	for i, line := range in.Lines {
		if err := validateLine(line); err != nil {
			return Totals{}, fmt.Errorf("%w: line %d: %s", ErrInputInvalid, i, err)
		}
		amount := line.Quantity.Mul(line.UnitPrice)
		sum = sum.Add(amount)
		lines = append(lines, LineTotal{
			Amount:  amount,
			Rounded: round(amount),
			TaxRate: line.TaxRate,
		})
	}

	tax := decimal.Zero
	if in.Tax.Enabled {
		tax = round(sum.Mul(in.Tax.DefaultRate).Div(hundred))
	}

	return Totals{
		Lines:      lines,
		Subtotal:   round(sum),
		TaxTotal:   tax,
		GrandTotal: round(sum.Add(tax)),
	}, nil
}

func validateLine(line Line) error {
	switch {
	case line.Quantity.IsNegative():
		return fmt.Errorf("negative quantity %s", line.Quantity)
	case line.UnitPrice.IsNegative():
		return fmt.Errorf("negative unit price %s", line.UnitPrice)
	case line.TaxRate != nil && line.TaxRate.IsNegative():
		return fmt.Errorf("negative tax rate %s", *line.TaxRate)
	}
	return nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(scale)
}

// Format renders an amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(scale)
}
