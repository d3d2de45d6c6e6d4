package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/pricing"
)

// TiendaRiver scrapes tiendariver.com product pages. Prices display in
// Argentine format with cents ("$ 169.999,00") but are stored as
// integer pesos.
type TiendaRiver struct{}

func NewTiendaRiver() *TiendaRiver { return &TiendaRiver{} }

func (t *TiendaRiver) Type() string { return "tiendariver" }

var tiendaRiverNameSelectors = []string{
	"h1",
	".product-name",
	".product-title",
	`[data-testid="product-name"]`,
	".product h1",
	"h1.product-name",
	".product-info h1",
}

var tiendaRiverPriceSelectors = []string{
	".price",
	".product-price",
	".price-current",
	`[data-testid="price"]`,
	".product .price",
	".price-value",
	".current-price",
}

var tiendaRiverImageSelectors = []string{
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

func (t *TiendaRiver) Extract(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	name := textFromSelectors(doc, tiendaRiverNameSelectors)
	if name == "" {
		title, _ := page.Title()
		if strings.Contains(title, "River") {
			name = nameFromTitle(title, "Tienda River", []string{" - Tienda River", " | Tienda River"})
		}
	}
	if name == "" {
		name = nameFromHeadings(doc)
	}
	if name == "" {
		return nil, &ExtractionError{Field: "name"}
	}

	rawPrice := priceFromSelectors(doc, tiendaRiverPriceSelectors)
	if rawPrice == "" {
		rawPrice = firstPriceInText(doc)
	}
	price := pricing.Normalize(rawPrice, pricing.CommaThousands)
	if price == "" {
		return nil, &ExtractionError{Field: "price"}
	}

	image := imageFromSelectors(doc, tiendaRiverImageSelectors, nil)
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
