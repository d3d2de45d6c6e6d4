package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/pricing"
)

// Coto scrapes cotodigital product pages. Coto populates its markup
// asynchronously, so the extractor waits (bounded) for the title
// element before evaluating the chain; a timed-out wait is not fatal,
// the fallbacks still run. Prices carry cents ("$ 4.865,00") and keep
// them through the decimal comma policy.
type Coto struct {
	titleWait time.Duration
}

func NewCoto() *Coto {
	return &Coto{titleWait: 5 * time.Second}
}

func (c *Coto) Type() string { return "coto" }

// cotoTitleSelector is the element Coto renders the product name into
// once its client-side code runs.
const cotoTitleSelector = ".title.text-dark"

var cotoNameSelectors = []string{
	cotoTitleSelector,
	`h1[data-testid="product-name"]`,
	"h1.product-name",
	"h1",
	`[data-testid="product-title"]`,
	".product-title",
	".product-name",
	".product-details h1",
	".product-info h1",
	`[class*="product-name"]`,
	`[class*="product-title"]`,
	".product-details .title",
	".product-info .title",
	".product-header h1",
	".product-header .title",
	".product-main h1",
	".product-main .title",
}

var cotoPriceSelectors = []string{
	`[data-testid="product-price"]`,
	".product-price",
	".price",
	`[class*="price"]:not([class*="shipping"]):not([class*="envio"])`,
	".product-price-value",
	".price-value",
	`[class*="price-value"]`,
	".product-details .price",
	".product-info .price",
}

var cotoImageSelectors = []string{
	".swiper-slide-active img",
	".product-image img",
	".product-gallery img",
	`[data-testid="product-image"] img`,
	".product-details img",
	".product-info img",
	`img[alt*="producto"]`,
	`img[alt*="Producto"]`,
	`img[src*="product"]`,
	`img[src*="Product"]`,
	`[class*="product-image"] img`,
}

// cotoProductImage keeps only assets served from Coto's own CDN and
// rejects the storefront logo, which matches several of the generic
// selectors above.
func cotoProductImage(src, alt string) bool {
	lower := strings.ToLower(src)
	return strings.Contains(lower, "cotodigital") && !strings.Contains(lower, "logocoto")
}

func (c *Coto) Extract(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	// Best-effort wait; extraction proceeds on timeout.
	_ = page.WaitForSelector(cotoTitleSelector, c.titleWait)

	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	name := textFromSelectors(doc, cotoNameSelectors)
	if name == "" {
		title, _ := page.Title()
		if before, _, found := strings.Cut(title, " - "); found {
			name = strings.TrimSpace(before)
		}
	}
	if name == "" {
		name = nameFromHeadings(doc)
	}
	if name == "" {
		return nil, &ExtractionError{Field: "name"}
	}

	rawPrice := priceFromSelectors(doc, cotoPriceSelectors)
	if rawPrice == "" {
		rawPrice = firstPriceInText(doc)
	}
	price := pricing.Normalize(rawPrice, pricing.CommaDecimal)
	if price == "" {
		return nil, &ExtractionError{Field: "price"}
	}

	image := imageFromSelectors(doc, cotoImageSelectors, cotoProductImage)
	if image == "" {
		image, _ = largestImage(page, 200, cotoProductImage)
	}

	return &models.ExtractionResult{
		Name:  name,
		Price: price,
		URL:   page.URL(),
		Image: image,
	}, nil
}
