package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var trailingDigitsRe = regexp.MustCompile(`\d+$`)

// DeriveSourceName builds a readable display name from a product URL
// when the caller did not provide one. Sporting URLs carry the product
// slug as the last path segment; for every other host a generic
// host-based name is used.
func DeriveSourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "Unknown Product"
	}

	if strings.Contains(u.Hostname(), "sporting.com.ar") {
		parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
		if len(parts) > 0 {
			last := parts[len(parts)-1]
			if last != "" && last != "p" {
				return titleFromSlug(last)
			}
		}
	}

	return fmt.Sprintf("Product from %s", u.Hostname())
}

// titleFromSlug turns "camiseta-boca-2024" into "Camiseta Boca". A
// trailing numeric id is dropped before title-casing.
func titleFromSlug(slug string) string {
	s := strings.ReplaceAll(slug, "-", " ")
	s = trailingDigitsRe.ReplaceAllString(s, "")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
