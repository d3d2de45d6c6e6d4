package scrape

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Shared building blocks for the per-site fallback chains. Every
// helper is "first success wins" over an ordered candidate list, so
// each extractor stays a declarative bundle of selector tables.

var (
	currencyTokenRe = regexp.MustCompile(`\$\s*[\d.,]+`)
	digitRe         = regexp.MustCompile(`\d`)
)

// logoPathFragments mark images that are never the product photo.
var logoPathFragments = []string{"logo", "favicon", "banner"}

// textFromSelectors returns the trimmed text of the first selector
// that matches a non-empty element.
func textFromSelectors(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// priceFromSelectors returns the first selector text that actually
// looks like a price: it must carry the currency marker and at least
// one digit, which rejects generically-classed containers holding
// unrelated text such as shipping labels.
func priceFromSelectors(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if strings.Contains(text, "$") && digitRe.MatchString(text) {
			return text
		}
	}
	return ""
}

// firstPriceInText scans the page's visible text for the first
// currency-prefixed numeric token. Only the first match is taken so a
// "related products" strip cannot shadow the main price.
func firstPriceInText(doc *goquery.Document) string {
	body := doc.Find("body").Text()
	return currencyTokenRe.FindString(body)
}

// nameFromTitle strips the site's suffix decorations off the document
// title. Returns "" when the title is empty or is just the site name.
func nameFromTitle(title, siteName string, suffixes []string) string {
	title = strings.TrimSpace(title)
	if title == "" || title == siteName {
		return ""
	}
	for _, suffix := range suffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}

// nameFromHeadings scans heading-like elements for the first text of
// plausible product-name length.
func nameFromHeadings(doc *goquery.Document) string {
	var name string
	doc.Find("h1, h2, .title, .product-name, .product-title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 5 && len(text) < 100 {
			name = text
			return false
		}
		return true
	})
	return name
}

// imageFromSelectors returns the src of the first selector whose image
// has an absolute URL, is not logo-like, and passes the extra filter
// (nil means no extra constraint).
func imageFromSelectors(doc *goquery.Document, selectors []string, filter func(src, alt string) bool) string {
	for _, sel := range selectors {
		src, _ := doc.Find(sel).First().Attr("src")
		alt, _ := doc.Find(sel).First().Attr("alt")
		if !strings.HasPrefix(src, "http") {
			continue
		}
		if isLogoLike(src, alt) {
			continue
		}
		if filter != nil && !filter(src, alt) {
			continue
		}
		return src
	}
	return ""
}

// largestImage picks the biggest image above the minimum dimension
// that is not logo-like and passes the extra filter. Ties break on
// document order for determinism.
func largestImage(page Page, minDim int, filter func(src, alt string) bool) (string, error) {
	images, err := page.Images()
	if err != nil {
		return "", err
	}

	type candidate struct {
		src   string
		area  int
		index int
	}
	var candidates []candidate
	for i, img := range images {
		if !strings.HasPrefix(img.Src, "http") {
			continue
		}
		if img.Width <= minDim || img.Height <= minDim {
			continue
		}
		if isLogoLike(img.Src, img.Alt) {
			continue
		}
		if filter != nil && !filter(img.Src, img.Alt) {
			continue
		}
		candidates = append(candidates, candidate{src: img.Src, area: img.Width * img.Height, index: i})
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].area != candidates[j].area {
			return candidates[i].area > candidates[j].area
		}
		return candidates[i].index < candidates[j].index
	})
	return candidates[0].src, nil
}

func isLogoLike(src, alt string) bool {
	lowerSrc := strings.ToLower(src)
	lowerAlt := strings.ToLower(alt)
	for _, frag := range logoPathFragments {
		if strings.Contains(lowerSrc, frag) || strings.Contains(lowerAlt, frag) {
			return true
		}
	}
	return false
}
