package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fakePage backs the extractor tests with static HTML instead of a
// live browser.
type fakePage struct {
	url     string
	title   string
	html    string
	images  []ImageInfo
	waitErr error
	waited  []string
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Title() (string, error) { return p.title, nil }

func (p *fakePage) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(p.html))
}

func (p *fakePage) WaitForSelector(selector string, timeout time.Duration) error {
	p.waited = append(p.waited, selector)
	return p.waitErr
}

func (p *fakePage) Images() ([]ImageInfo, error) { return p.images, nil }
