package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	inv := invoicedomain.Invoice{Number: "FAC-BJ-2025-000001"}

	assert.Equal(t,
		[]string{"RCCM manquant", "IFU manquant"},
		Validate(orgdomain.Organization{CountryCode: "BJ"}, inv),
	)
	assert.Equal(t,
		[]string{"IFU/NIF manquant"},
		Validate(orgdomain.Organization{CountryCode: "SN", TradeRegister: "SN-DKR-2024-B-1"}, inv),
	)
	assert.Empty(t, Validate(orgdomain.Organization{CountryCode: "BJ", TradeRegister: "RB/1", TaxID: "320"}, inv))
	assert.Empty(t, Validate(orgdomain.Organization{CountryCode: "FR"}, inv))
}

func TestCheck(t *testing.T) {
	inv := invoicedomain.Invoice{}

	require.NoError(t, Check(orgdomain.Organization{CountryCode: "TG", TradeRegister: "x", TaxID: "y"}, inv))

	err := Check(orgdomain.Organization{CountryCode: "BJ", TaxID: "320"}, inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrComplianceValidationFailed)

	var cerr *ComplianceError
	require.True(t, errors.As(fmt.Errorf("send: %w", err), &cerr))
	assert.Equal(t, compliance.KindBenin, cerr.Adapter)
	assert.Equal(t, []string{"RCCM manquant"}, cerr.Reasons)
	assert.Contains(t, cerr.Error(), "RCCM manquant")
}
