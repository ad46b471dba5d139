package compliance

import (
	"strings"

	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
)

// Kind tags the adapter variants.
type Kind string

const (
	KindBenin Kind = "BJ_GENERIC"
	KindUEMOA Kind = "UEMOA_OHADA_GENERIC"
)

// Adapter checks invoices against one jurisdiction's rules. The set of
// adapters is closed: only this package can implement it.
type Adapter interface {
	Kind() Kind
	Rules() Rule
	// ValidateInvoice returns human-readable reasons the invoice cannot be
	// issued as-is. An empty result means compliant.
	ValidateInvoice(org orgdomain.Organization, inv invoicedomain.Invoice) []string

	sealed()
}

// AdapterFor selects the adapter for a country code. Benin gets its own
// rules; every other code, known or not, falls back to the UEMOA/OHADA set.
func AdapterFor(country string) Adapter {
	if normalizeCountry(country) == CountryBenin {
		return BeninAdapter{}
	}
	return UEMOAAdapter{}
}

// BeninAdapter applies the Benin rules (RCCM and IFU).
type BeninAdapter struct{}

func (BeninAdapter) Kind() Kind { return KindBenin }

func (BeninAdapter) Rules() Rule {
	return Rule{
		Code:                 string(KindBenin),
		RequiredSellerFields: sellerFields(),
		NumberingFormat:      "FAC-BJ-{YYYY}-{SEQ:6}",
		VATLabel:             vatLabelTVA,
	}
}

func (BeninAdapter) ValidateInvoice(org orgdomain.Organization, _ invoicedomain.Invoice) []string {
	var errs []string
	if isBlank(org.TradeRegister) {
		errs = append(errs, "RCCM manquant")
	}
	if isBlank(org.TaxID) {
		errs = append(errs, "IFU manquant")
	}
	return errs
}

func (BeninAdapter) sealed() {}

// UEMOAAdapter applies the generic UEMOA/OHADA rules (RCCM/RC and IFU/NIF).
type UEMOAAdapter struct{}

func (UEMOAAdapter) Kind() Kind { return KindUEMOA }

func (UEMOAAdapter) Rules() Rule {
	return Rule{
		Code:                 string(KindUEMOA),
		RequiredSellerFields: sellerFields(),
		NumberingFormat:      "FAC-{COUNTRY}-{YYYY}-{SEQ:6}",
		VATLabel:             vatLabelTVA,
	}
}

// ValidateInvoice only checks organizations located in a member state.
// Organizations elsewhere are selected here by fallback and pass unchecked.
func (UEMOAAdapter) ValidateInvoice(org orgdomain.Organization, _ invoicedomain.Invoice) []string {
	if !IsUEMOA(org.CountryCode) {
		return nil
	}
	var errs []string
	if isBlank(org.TradeRegister) {
		errs = append(errs, "RCCM/RC manquant")
	}
	if isBlank(org.TaxID) {
		errs = append(errs, "IFU/NIF manquant")
	}
	return errs
}

func (UEMOAAdapter) sealed() {}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
