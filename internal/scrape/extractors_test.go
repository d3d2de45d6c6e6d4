package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSportingExtract(t *testing.T) {
	page := &fakePage{
		url:   "https://www.sporting.com.ar/camiseta-boca-2024/p",
		title: "Camiseta Boca 2024 - Sporting.com.ar",
		html: `
			<h1 class="product-name">Camiseta Boca 2024</h1>
			<div class="product-price"><span class="price">$ 179.999</span></div>
			<div class="product-gallery">
				<img src="https://cdn.sporting.com.ar/products/camiseta.jpg" alt="Camiseta Boca">
			</div>`,
	}

	result, err := NewSporting().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Camiseta Boca 2024", result.Name)
	assert.Equal(t, "179999", result.Price)
	assert.Equal(t, "https://cdn.sporting.com.ar/products/camiseta.jpg", result.Image)
	assert.Equal(t, page.url, result.URL)
}

func TestSportingExtractNameFromTitle(t *testing.T) {
	page := &fakePage{
		url:   "https://www.sporting.com.ar/botines/p",
		title: "Botines Predator - Sporting.com.ar",
		html:  `<div class="content">Sin datos estructurados</div>`,
	}

	result, err := NewSporting().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Botines Predator", result.Name)
}

func TestSportingExtractMissingPriceUsesSentinel(t *testing.T) {
	page := &fakePage{
		url:  "https://www.sporting.com.ar/agotado/p",
		html: `<h1 class="product-name">Camiseta Agotada</h1>`,
	}

	result, err := NewSporting().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "0", result.Price)
}

func TestSportingExtractMissingNameFails(t *testing.T) {
	page := &fakePage{
		url:  "https://www.sporting.com.ar/vacio/p",
		html: `<div></div>`,
	}

	_, err := NewSporting().Extract(context.Background(), page)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "name", extractionErr.Field)
}

func TestSportingLargestImageFallback(t *testing.T) {
	page := &fakePage{
		url:  "https://www.sporting.com.ar/camiseta/p",
		html: `<h1 class="product-name">Camiseta Titular</h1><span class="price">$ 99.999</span>`,
		images: []ImageInfo{
			{Src: "https://cdn.sporting.com.ar/logo.png", Width: 400, Height: 400},
			{Src: "https://cdn.sporting.com.ar/thumb.jpg", Width: 80, Height: 80},
			{Src: "https://cdn.sporting.com.ar/foto-grande.jpg", Width: 800, Height: 600},
			{Src: "https://cdn.sporting.com.ar/foto-chica.jpg", Width: 200, Height: 150},
		},
	}

	result, err := NewSporting().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.sporting.com.ar/foto-grande.jpg", result.Image)
}

func TestTiendaRiverExtract(t *testing.T) {
	page := &fakePage{
		url:   "https://www.tiendariver.com/camiseta-titular",
		title: "Camiseta Titular River 2024 - Tienda River",
		html: `
			<h1>Camiseta Titular River 2024</h1>
			<span class="price">$ 169.999,00</span>`,
	}

	result, err := NewTiendaRiver().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Camiseta Titular River 2024", result.Name)
	assert.Equal(t, "169999", result.Price)
}

func TestTiendaRiverTitleFallbackRequiresRiver(t *testing.T) {
	page := &fakePage{
		url:   "https://www.tiendariver.com/otro",
		title: "Pagina generica",
		html:  `<div>nada</div>`,
	}

	_, err := NewTiendaRiver().Extract(context.Background(), page)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "name", extractionErr.Field)
}

func TestTiendaRiverMissingPriceFails(t *testing.T) {
	page := &fakePage{
		url:  "https://www.tiendariver.com/camiseta",
		html: `<h1>Camiseta Suplente River</h1>`,
	}

	_, err := NewTiendaRiver().Extract(context.Background(), page)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "price", extractionErr.Field)
}

func TestDiaExtract(t *testing.T) {
	page := &fakePage{
		url: "https://diaonline.supermercadosdia.com.ar/leche-entera-1l/p",
		html: `
			<h1>Leche Entera 1L</h1>
			<span class="price">$ 1.200</span>`,
	}

	result, err := NewDia().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Leche Entera 1L", result.Name)
	assert.Equal(t, "1200", result.Price)
}

func TestDiaPriceFromBodyText(t *testing.T) {
	page := &fakePage{
		url: "https://diaonline.supermercadosdia.com.ar/yerba/p",
		html: `
			<h1>Yerba Mate 500g</h1>
			<div class="detalle">Llevalo hoy por $ 3.400 en todas las sucursales</div>`,
	}

	result, err := NewDia().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "3400", result.Price)
}

func TestCotoExtract(t *testing.T) {
	page := &fakePage{
		url: "https://www.cotodigital3.com.ar/sitios/cdigi/producto",
		html: `
			<div class="title text-dark">Aceite de Girasol 1.5L</div>
			<div class="product-price">$ 4.865,00</div>
			<div class="product-image">
				<img src="https://static.cotodigital3.com.ar/sitios/fotos/aceite.jpg" alt="Aceite">
			</div>`,
	}

	result, err := NewCoto().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Aceite de Girasol 1.5L", result.Name)
	assert.Equal(t, "4865", result.Price)
	assert.Equal(t, "https://static.cotodigital3.com.ar/sitios/fotos/aceite.jpg", result.Image)
	assert.Contains(t, page.waited, ".title.text-dark")
}

func TestCotoKeepsDecimalCents(t *testing.T) {
	page := &fakePage{
		url: "https://www.cotodigital3.com.ar/sitios/cdigi/producto",
		html: `
			<div class="title text-dark">Gaseosa 2.25L</div>
			<div class="product-price">$ 4.865,50</div>`,
	}

	result, err := NewCoto().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "4865.5", result.Price)
}

func TestCotoWaitTimeoutIsNotFatal(t *testing.T) {
	page := &fakePage{
		url:     "https://www.cotodigital3.com.ar/sitios/cdigi/producto",
		waitErr: errors.New("timeout exceeded"),
		html: `
			<h1>Arroz Largo Fino 1kg</h1>
			<div class="price">$ 2.100,00</div>`,
	}

	result, err := NewCoto().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Arroz Largo Fino 1kg", result.Name)
	assert.Equal(t, "2100", result.Price)
}

func TestCotoRejectsForeignImages(t *testing.T) {
	page := &fakePage{
		url: "https://www.cotodigital3.com.ar/sitios/cdigi/producto",
		html: `
			<div class="title text-dark">Fideos Guiseros 500g</div>
			<div class="price">$ 1.500,00</div>
			<div class="product-image">
				<img src="https://ads.example.com/banner-grande.jpg" alt="promo">
			</div>`,
		images: []ImageInfo{
			{Src: "https://static.cotodigital3.com.ar/sitios/logocoto.png", Width: 500, Height: 500},
			{Src: "https://static.cotodigital3.com.ar/sitios/fotos/fideos.jpg", Width: 400, Height: 400},
		},
	}

	result, err := NewCoto().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "https://static.cotodigital3.com.ar/sitios/fotos/fideos.jpg", result.Image)
}

func TestSoloFutbolExtract(t *testing.T) {
	page := &fakePage{
		url: "https://www.solofutbol.com/camiseta-argentina",
		html: `
			<meta property="og:image" content="https://cdn.solofutbol.com/fotos/argentina.jpg">
			<h1>Camiseta Argentina Titular</h1>
			<span class="price">$ 149.999,00</span>`,
	}

	result, err := NewSoloFutbol().Extract(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Camiseta Argentina Titular", result.Name)
	assert.Equal(t, "149999", result.Price)
	assert.Equal(t, "https://cdn.solofutbol.com/fotos/argentina.jpg", result.Image)
	assert.Contains(t, page.waited, "h1")
}

func TestSoloFutbolHeadingTimeoutFails(t *testing.T) {
	page := &fakePage{
		url:     "https://www.solofutbol.com/camiseta",
		waitErr: errors.New("timeout exceeded"),
		html:    `<h1>Camiseta</h1>`,
	}

	_, err := NewSoloFutbol().Extract(context.Background(), page)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "timeout", extractionErr.Field)
}

func TestSoloFutbolRetryPolicy(t *testing.T) {
	policy := NewSoloFutbol().RetryPolicy()

	assert.Equal(t, 2, policy.MaxAttempts)
	assert.NotZero(t, policy.Backoff)
}
