package models

import (
	"time"
)

// Source is a scrape target: a product URL plus the site tag that
// selects its extractor. Optionally linked to a catalog product.
type Source struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	ProductID string    `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogProduct is a logical product the user wants tracked.
type CatalogProduct struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Labels    []Label   `json:"labels,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label is a user-defined tag on catalog products.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ScrapedRecord is one timestamped observation of a product from one
// source. Records are append-only: created once per successful
// extraction and never mutated.
type ScrapedRecord struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id,omitempty"`
	SourceID  string    `json:"source_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Image     string    `json:"image,omitempty"`
	URL       string    `json:"url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// OutcomeStatus tags the per-source result of a batch run.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is one source's result within a batch run. Err holds the
// failure (or skip) message when Status is OutcomeError.
type Outcome struct {
	Source Source            `json:"source"`
	Status OutcomeStatus     `json:"status"`
	Data   *ExtractionResult `json:"data,omitempty"`
	Err    string            `json:"error,omitempty"`
}

// ExtractionResult is what an extractor pulls out of a loaded page.
// Name and Price are always non-empty on success; Price may be a
// best-effort cleanup of the raw text rather than a verified number.
type ExtractionResult struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}
