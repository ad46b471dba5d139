// Package compliance holds the per-jurisdiction invoicing rules and the
// adapters that check an organization against them.
package compliance

import (
	"strings"
	"time"
)

// Seller fields an adapter may require on the issuing organization.
const (
	FieldTradeRegister = "trade_register"
	FieldTaxID         = "tax_id"
	FieldAddress       = "address"
)

const (
	CountryBenin = "BJ"

	vatLabelTVA = "TVA"
)

// Rule is the static rule set of one jurisdiction.
type Rule struct {
	Code                 string   `json:"code"`
	RequiredSellerFields []string `json:"required_seller_fields"`
	NumberingFormat      string   `json:"numbering_format"`
	VATLabel             string   `json:"vat_label"`
}

// FormatNumber renders the rule's numbering format for a given sequence.
func (r Rule) FormatNumber(country string, issuedAt time.Time, seq int64) (string, error) {
	return FormatNumber(r.NumberingFormat, country, issuedAt, seq)
}

// uemoaMembers lists the member states of the UEMOA in a stable order. It
// returns an array so every caller gets its own copy.
func uemoaMembers() [8]string {
	return [...]string{"BJ", "BF", "CI", "GW", "ML", "NE", "SN", "TG"}
}

// IsUEMOA reports whether country is a member state of the UEMOA.
func IsUEMOA(country string) bool {
	code := normalizeCountry(country)
	for _, member := range uemoaMembers() {
		if member == code {
			return true
		}
	}
	return false
}

// UEMOAMembers returns a copy of the member state codes.
func UEMOAMembers() []string {
	members := uemoaMembers()
	return members[:]
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}

func sellerFields() []string {
	return []string{FieldTradeRegister, FieldTaxID, FieldAddress}
}
