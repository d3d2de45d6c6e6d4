package scrape

import (
	"context"
	"fmt"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/pricing"
)

// Sporting scrapes sporting.com.ar product pages. It is the most
// lenient of the extractors: a missing price is replaced by the "0"
// sentinel instead of failing the source, a behavior downstream
// consumers of this site depend on.
type Sporting struct{}

func NewSporting() *Sporting { return &Sporting{} }

func (s *Sporting) Type() string { return "sporting" }

var sportingNameSelectors = []string{
	"h1.product-name",
	".product-title h1",
	`h1[data-testid="product-title"]`,
	".product-details h1",
	".product-info h1",
	".product-header h1",
	".product h1",
	"h1.product-title",
	"h1",
	".product-name",
	".product-title",
	`[data-testid="product-name"]`,
	".product-details .product-name",
	".product-header .product-name",
	".product-info .product-name",
}

var sportingPriceSelectors = []string{
	".product-price .price",
	".price-current",
	`[data-testid="product-price"]`,
	".product-price",
	".price",
	".product-price-current",
	".current-price",
	".product-price .current-price",
	".price-value",
	`[data-testid="price"]`,
	".product-details .price",
	".product-info .price",
	".product-header .price",
	".price-container .price",
	".product-price-container .price",
	".price-wrapper .price",
	".product-price-wrapper .price",
	".product-price-main",
	".main-price",
	".product-main-price",
	".price-main",
	`[class*="price"]:not([class*="shipping"]):not([class*="envio"])`,
	`[class*="Price"]:not([class*="shipping"]):not([class*="envio"])`,
	".product-price .price-current",
	".price-current .price",
	".product-price-current .price",
	".current-price .price",
}

var sportingImageSelectors = []string{
	"img.product-main-image",
	".product-gallery img",
	`img[data-testid="product-image"]`,
	".product-image img",
	".product-images img",
	`img[src*="/products/"]`,
	`img[alt*="producto"]`,
	".swiper-slide-active img",
	".slick-active img",
}

func (s *Sporting) Extract(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	name := textFromSelectors(doc, sportingNameSelectors)
	if name == "" {
		title, _ := page.Title()
		name = nameFromTitle(title, "Sporting.com.ar", []string{" - Sporting.com.ar", " | Sporting.com.ar"})
	}
	if name == "" {
		name = nameFromHeadings(doc)
	}
	if name == "" {
		return nil, &ExtractionError{Field: "name"}
	}

	rawPrice := priceFromSelectors(doc, sportingPriceSelectors)
	if rawPrice == "" {
		rawPrice = firstPriceInText(doc)
	}
	price := pricing.Normalize(rawPrice, pricing.CommaThousands)
	if price == "" {
		// Sentinel instead of failure; this site alone tolerates a
		// missing price.
		price = "0"
	}

	image := imageFromSelectors(doc, sportingImageSelectors, nil)
	if image == "" {
		image, _ = largestImage(page, 100, nil)
	}

	return &models.ExtractionResult{
		Name:  name,
		Price: price,
		URL:   page.URL(),
		Image: image,
	}, nil
}
