// Package validation runs the jurisdiction checks for an invoice.
package validation

import (
	"errors"
	"strings"

	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
)

// ErrComplianceValidationFailed is matched by every *ComplianceError.
var ErrComplianceValidationFailed = errors.New("compliance_validation_failed")

// ComplianceError lists every reason an invoice failed its jurisdiction
// checks, in the adapter's order.
type ComplianceError struct {
	Adapter compliance.Kind
	Reasons []string
}

func (e *ComplianceError) Error() string {
	return "compliance validation failed: " + strings.Join(e.Reasons, "; ")
}

func (e *ComplianceError) Is(target error) bool {
	return target == ErrComplianceValidationFailed
}

// Validate returns the selected adapter's findings for (org, inv). An empty
// result means the invoice may be sent.
func Validate(org orgdomain.Organization, inv invoicedomain.Invoice) []string {
	return compliance.AdapterFor(org.CountryCode).ValidateInvoice(org, inv)
}

// Check is Validate as an error: nil when compliant, *ComplianceError otherwise.
func Check(org orgdomain.Organization, inv invoicedomain.Invoice) error {
	adapter := compliance.AdapterFor(org.CountryCode)
	reasons := adapter.ValidateInvoice(org, inv)
	if len(reasons) == 0 {
		return nil
	}
	return &ComplianceError{Adapter: adapter.Kind(), Reasons: reasons}
}
