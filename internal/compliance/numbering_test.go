package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	issuedAt := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		format  string
		country string
		seq     int64
		want    string
	}{
		{name: "benin", format: "FAC-BJ-{YYYY}-{SEQ:6}", country: "BJ", seq: 1, want: "FAC-BJ-2025-000001"},
		{name: "uemoa country token", format: "FAC-{COUNTRY}-{YYYY}-{SEQ:6}", country: "sn", seq: 42, want: "FAC-SN-2025-000042"},
		{name: "plain sequence", format: "INV-{YY}{MM}{DD}-{SEQ}", country: "", seq: 1234567, want: "INV-250307-1234567"},
		{name: "sequence wider than padding", format: "{SEQ:2}", seq: 123, want: "123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatNumber(tc.format, tc.country, issuedAt, tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatNumberErrors(t *testing.T) {
	issuedAt := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, err := FormatNumber("", "BJ", issuedAt, 1)
	assert.Error(t, err)

	_, err = FormatNumber("FAC-{SEQ}", "BJ", issuedAt, 0)
	assert.Error(t, err)

	_, err = FormatNumber("FAC-{SEQ:0}", "BJ", issuedAt, 1)
	assert.Error(t, err)

	_, err = FormatNumber("FAC-{UNKNOWN}-{SEQ}", "BJ", issuedAt, 1)
	assert.Error(t, err)

	_, err = FormatNumber("FAC-{COUNTRY}-{SEQ}", " ", issuedAt, 1)
	assert.Error(t, err)
}

func TestRuleFormatNumber(t *testing.T) {
	issuedAt := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)

	got, err := AdapterFor("ML").Rules().FormatNumber("ML", issuedAt, 7)
	require.NoError(t, err)
	assert.Equal(t, "FAC-ML-2024-000007", got)
}
