package scrape

import (
	"context"
	"fmt"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/pricing"
)

// Dia scrapes diaonline.supermercadosdia.com.ar product pages. Prices
// display as dot-thousands integers ("$ 3.400").
type Dia struct{}

func NewDia() *Dia { return &Dia{} }

func (d *Dia) Type() string { return "dia" }

var diaNameSelectors = []string{
	"h1",
	".product-name",
	".product-title",
	`[data-testid="product-name"]`,
	".product h1",
	"h1.product-name",
	".product-info h1",
	".product-details h1",
	".product-header h1",
	`[class*="product-name"]`,
	`[class*="product-title"]`,
}

var diaPriceSelectors = []string{
	".price",
	".product-price",
	".price-current",
	`[data-testid="price"]`,
	".product .price",
	".price-value",
	".current-price",
	".product-price .price",
	".price-container .price",
	".price-wrapper .price",
	`[class*="price"]:not([class*="shipping"]):not([class*="envio"])`,
	`[class*="Price"]:not([class*="shipping"]):not([class*="envio"])`,
}

var diaImageSelectors = []string{
	"img.product-main-image",
	".product-gallery img",
	`img[data-testid="product-image"]`,
	".product-image img",
	".product-images img",
	`img[src*="/products/"]`,
	`img[alt*="producto"]`,
	".swiper-slide-active img",
	".slick-active img",
	".product-main-image img",
}

func (d *Dia) Extract(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	name := textFromSelectors(doc, diaNameSelectors)
	if name == "" {
		title, _ := page.Title()
		name = nameFromTitle(title, "Dia", []string{" - Dia", " | Dia"})
	}
	if name == "" {
		name = nameFromHeadings(doc)
	}
	if name == "" {
		return nil, &ExtractionError{Field: "name"}
	}

	rawPrice := priceFromSelectors(doc, diaPriceSelectors)
	if rawPrice == "" {
		rawPrice = firstPriceInText(doc)
	}
	price := pricing.Normalize(rawPrice, pricing.CommaThousands)
	if price == "" {
		return nil, &ExtractionError{Field: "price"}
	}

	image := imageFromSelectors(doc, diaImageSelectors, nil)
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
