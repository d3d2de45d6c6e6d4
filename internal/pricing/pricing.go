// Package pricing normalizes raw price strings scraped from Argentine
// retail sites into canonical numeric strings.
//
// The sites do not agree on one format: most display dot-thousands
// integers ("179.999"), Coto displays dot-thousands with comma cents
// ("4.865,00"). Each extractor declares which comma policy its site
// uses; there is deliberately no global default.
package pricing

import (
	"strconv"
	"strings"
)

// Policy says how a comma in a cleaned price string is interpreted.
type Policy int

const (
	// CommaThousands treats the string as integer pesos: dots are
	// thousand separators, and anything after a comma is cents to be
	// discarded ("149.999,00" -> "149999").
	CommaThousands Policy = iota

	// CommaDecimal keeps cents: dots are thousand separators and the
	// comma is the decimal mark ("4.865,00" -> "4865",
	// "4.865,50" -> "4865.5").
	CommaDecimal
)

// maxDigits bounds the repair of concatenated digit runs. Argentine
// retail prices top out well below 7 digits, so a run of 10+ digits is
// almost certainly several prices glued together by a bad selector.
const maxDigits = 6

// Normalize converts a raw scraped price into a canonical numeric
// string: no currency symbol, no thousand separators, decimal part kept
// only under CommaDecimal. It never fails; unrecognizable input comes
// back with everything but digits and separators stripped.
func Normalize(raw string, policy Policy) string {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return ""
	}

	if strings.Contains(cleaned, ",") {
		switch policy {
		case CommaDecimal:
			return normalizeDecimal(cleaned)
		default:
			return normalizeInteger(cleaned)
		}
	}

	if strings.Contains(cleaned, ".") {
		// Dot without comma is always a thousands separator here.
		return strings.ReplaceAll(cleaned, ".", "")
	}

	if len(cleaned) >= 10 {
		// Concatenated prices ("179999179999") from an over-broad
		// selector: keep a bounded prefix as a best-effort repair. The
		// prefix is returned in canonical form directly; re-inserting a
		// thousands break would only be stripped on a second pass.
		return cleaned[:maxDigits]
	}

	return cleaned
}

// stripNonNumeric drops everything except digits, dots and commas.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeInteger applies the integer-pesos policy: dots removed,
// decimals after the last comma discarded.
func normalizeInteger(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, ",", "")
}

// normalizeDecimal applies the cents-keeping policy: dots removed, the
// last comma becomes the decimal point. Whole-peso amounts lose their
// ",00" tail so "4.865,00" and "4865" normalize identically.
func normalizeDecimal(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = s[:i] + "." + s[i+1:]
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
