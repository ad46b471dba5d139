package compliance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqTokenRe = regexp.MustCompile(`\{SEQ(?::(\d+))?\}`)

// FormatNumber renders a document number from a format, the issuing
// country, the issue date and a positive sequence value.
//
// Supported tokens: {YYYY} {YY} {MM} {DD} {COUNTRY} {SEQ} {SEQ:N}, where N
// zero-pads the sequence to N digits. The function is pure.
func FormatNumber(format, country string, issuedAt time.Time, seq int64) (string, error) {
	if format == "" {
		return "", fmt.Errorf("numbering format is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid sequence: %d", seq)
	}
	if strings.Contains(format, "{COUNTRY}") && normalizeCountry(country) == "" {
		return "", fmt.Errorf("numbering format %q needs a country", format)
	}

	out := strings.NewReplacer(
		"{YYYY}", issuedAt.Format("2006"),
		"{YY}", issuedAt.Format("06"),
		"{MM}", issuedAt.Format("01"),
		"{DD}", issuedAt.Format("02"),
		"{COUNTRY}", normalizeCountry(country),
	).Replace(format)

	out = seqTokenRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqTokenRe.FindStringSubmatch(m)
		if match[1] == "" {
			return strconv.FormatInt(seq, 10)
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in numbering format: %s", out)
	}
	return out, nil
}
