package browser

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.Headless {
		t.Error("Expected headless to be true by default")
	}

	if opts.NavTimeout != 30*time.Second {
		t.Errorf("Expected nav timeout to be 30s, got %v", opts.NavTimeout)
	}

	if opts.ViewportWidth != 1920 || opts.ViewportHeight != 1080 {
		t.Errorf("Expected viewport to be 1920x1080, got %dx%d", opts.ViewportWidth, opts.ViewportHeight)
	}

	if opts.Locale != "es-AR" {
		t.Errorf("Expected locale to be es-AR, got %s", opts.Locale)
	}

	if opts.TimezoneID != "America/Argentina/Buenos_Aires" {
		t.Errorf("Expected Argentina timezone, got %s", opts.TimezoneID)
	}
}

func TestIsFrameDetached(t *testing.T) {
	if !isFrameDetached(errors.New("playwright: navigating frame was detached")) {
		t.Error("Expected detached frame error to be recognized")
	}

	if isFrameDetached(errors.New("net::ERR_CONNECTION_REFUSED")) {
		t.Error("Expected unrelated error not to be treated as frame detach")
	}
}

func TestScreenshotName(t *testing.T) {
	got := screenshotName("https://www.cotodigital3.com.ar/sitios/cdigi/producto")
	want := "debug-www-cotodigital3-com-ar.png"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if screenshotName("not a url") != "debug-page.png" {
		t.Error("Expected fallback name for unparseable URL")
	}
}
