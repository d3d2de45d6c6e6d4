package browser

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/franmoretti/pricewatch/internal/scrape"
)

// Session drives one product page for the duration of one scrape
// call. It implements scrape.Session.
type Session struct {
	page playwright.Page
	url  string
}

var _ scrape.Session = (*Session)(nil)

// Open creates a page, navigates with a bounded timeout, waits the
// fixed settle period for client-rendered content, and optionally
// drops a diagnostic screenshot. The caller owns Close.
func (b *Browser) Open(ctx context.Context, target string) (scrape.Session, error) {
	page, err := b.NewPage()
	if err != nil {
		return nil, &scrape.NavigationError{URL: target, Err: err}
	}

	b.logger.Info("navigating", "url", target)

	_, err = page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(b.opts.NavTimeout.Milliseconds())),
	})
	if err != nil {
		page.Close()
		if isFrameDetached(err) {
			return nil, fmt.Errorf("navigating %s: %w", target, scrape.ErrFrameDetached)
		}
		return nil, &scrape.NavigationError{URL: target, Err: err}
	}

	// Client-rendered shops keep painting after networkidle.
	select {
	case <-ctx.Done():
		page.Close()
		return nil, ctx.Err()
	case <-time.After(b.opts.SettleWait):
	}

	if b.opts.ScreenshotDir != "" {
		path := filepath.Join(b.opts.ScreenshotDir, screenshotName(target))
		if _, err := page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(path),
		}); err != nil {
			b.logger.Warn("screenshot failed", "url", target, "error", err)
		}
	}

	return &Session{page: page, url: target}, nil
}

func (s *Session) URL() string {
	return s.page.URL()
}

func (s *Session) Title() (string, error) {
	return s.page.Title()
}

func (s *Session) Document() (*goquery.Document, error) {
	html, err := s.page.Content()
	if err != nil {
		if isFrameDetached(err) {
			return nil, fmt.Errorf("reading page content: %w", scrape.ErrFrameDetached)
		}
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *Session) WaitForSelector(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// Images evaluates the live DOM so natural dimensions are available,
// which attribute parsing alone cannot provide.
func (s *Session) Images() ([]scrape.ImageInfo, error) {
	result, err := s.page.Evaluate(`() => Array.from(document.querySelectorAll('img')).map(img => ({
		src: img.src,
		alt: img.alt || '',
		width: img.naturalWidth || img.width,
		height: img.naturalHeight || img.height
	}))`)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate images: %w", err)
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}

	images := make([]scrape.ImageInfo, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		images = append(images, scrape.ImageInfo{
			Src:    asString(entry["src"]),
			Alt:    asString(entry["alt"]),
			Width:  asInt(entry["width"]),
			Height: asInt(entry["height"]),
		})
	}
	return images, nil
}

func (s *Session) Close() error {
	return s.page.Close()
}

func isFrameDetached(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "frame was detached")
}

// screenshotName derives a stable per-host filename so consecutive
// runs against the same shop overwrite instead of piling up.
func screenshotName(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "debug-page.png"
	}
	host := strings.ReplaceAll(u.Host, ".", "-")
	return "debug-" + host + ".png"
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
