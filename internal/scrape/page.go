package scrape

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/franmoretti/pricewatch/internal/models"
)

// Page is the loaded-document handle an extractor works against. The
// live implementation wraps a playwright page; tests use a fixture
// backed by static HTML.
type Page interface {
	// URL returns the page's current address.
	URL() string

	// Title returns the document title.
	Title() (string, error)

	// Document returns a parsed snapshot of the page content.
	Document() (*goquery.Document, error)

	// WaitForSelector blocks until the selector appears or the timeout
	// elapses, returning an error on timeout. Used by sites that
	// populate their markup asynchronously.
	WaitForSelector(selector string, timeout time.Duration) error

	// Images lists every image on the page with its rendered natural
	// dimensions, for the largest-image fallback.
	Images() ([]ImageInfo, error)
}

// Session is a Page whose underlying browser resources must be
// released when the scrape finishes, on every exit path.
type Session interface {
	Page
	Close() error
}

// SessionFactory opens a fresh, already-navigated session for one
// scrape call. Navigation failures surface as *NavigationError, and a
// torn-down frame as ErrFrameDetached.
type SessionFactory interface {
	Open(ctx context.Context, url string) (Session, error)
}

// ImageInfo describes one <img> on a page.
type ImageInfo struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

// Extractor converts a loaded page into a product observation. One
// implementation exists per supported site.
type Extractor interface {
	// Type is the source type tag this extractor is registered under.
	Type() string

	// Extract runs the site's strategy chain. On success Name and
	// Price are non-empty; Image may be empty. Failure to locate a
	// required field is an *ExtractionError.
	Extract(ctx context.Context, page Page) (*models.ExtractionResult, error)
}

// Retryable is implemented by extractors whose sites throw transient
// automation errors worth a bounded re-scrape of the whole page.
type Retryable interface {
	RetryPolicy() RetryPolicy
}
