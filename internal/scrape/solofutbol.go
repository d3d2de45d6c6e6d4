package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/pricing"
)

// SoloFutbol scrapes solofutbol.com product pages. The site tears its
// frame down mid-load often enough that the whole scrape is retried
// once after a fixed backoff when that happens; see RetryPolicy.
type SoloFutbol struct {
	headingWait time.Duration
}

func NewSoloFutbol() *SoloFutbol {
	return &SoloFutbol{headingWait: 15 * time.Second}
}

func (s *SoloFutbol) Type() string { return "solofutbol" }

// RetryPolicy makes the runner re-open and re-scrape the page exactly
// once when the navigation frame detaches.
func (s *SoloFutbol) RetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Backoff: 2 * time.Second}
}

var soloFutbolGallerySelectors = []string{
	".gallery .fotorama__active img",
	".product-main-image img",
	".product-image img",
	".main-product-photo img",
	".product-image-gallery img",
	".gallery img",
}

func (s *SoloFutbol) Extract(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	// The h1 is the only reliable name carrier; if it never renders
	// there is nothing to extract.
	if err := page.WaitForSelector("h1", s.headingWait); err != nil {
		return nil, &ExtractionError{Field: "timeout"}
	}

	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		return nil, &ExtractionError{Field: "name"}
	}

	rawPrice := strings.TrimSpace(doc.Find("span.price").First().Text())
	if rawPrice == "" {
		rawPrice = firstPriceInText(doc)
	}
	price := pricing.Normalize(rawPrice, pricing.CommaThousands)
	if price == "" {
		return nil, &ExtractionError{Field: "price"}
	}

	image := s.extractImage(doc, page)

	return &models.ExtractionResult{
		Name:  name,
		Price: price,
		URL:   page.URL(),
		Image: image,
	}, nil
}

// extractImage prefers the og:image meta tag, which carries the
// product photo on this shop, before falling back to the gallery and
// finally the first plausibly-sized non-logo image.
func (s *SoloFutbol) extractImage(doc *goquery.Document, page Page) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
		return content
	}

	if src := imageFromSelectors(doc, soloFutbolGallerySelectors, nil); src != "" {
		return src
	}

	images, err := page.Images()
	if err != nil {
		return ""
	}
	for _, img := range images {
		if img.Src == "" || isLogoLike(img.Src, img.Alt) {
			continue
		}
		if img.Width > 100 && img.Height > 100 {
			return img.Src
		}
	}
	return ""
}
