package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormaliseName trims s and converts it to Unicode NFC so that names from
// differently encoded sources compare equal.
func NormaliseName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
