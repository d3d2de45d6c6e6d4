package scrape

import (
	"errors"
	"fmt"
)

// ErrFrameDetached is the transient automation failure some sites
// trigger when their page frame is torn down mid-load. It is the only
// error the retry combinator considers retryable.
var ErrFrameDetached = errors.New("navigating frame was detached")

// NavigationError indicates the page never loaded: navigation timed
// out or the transport failed. It is distinct from ExtractionError so
// the runner can report a different message.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ExtractionError indicates a required field could not be located
// after the extractor exhausted its fallback chain.
type ExtractionError struct {
	Field string // "name", "price" or "timeout"
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract product %s", e.Field)
}

// UnknownTypeError indicates a source's type tag has no registered
// extractor. The runner records it as a skip, never an abort.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no scraper registered for type %q", e.Type)
}

// IsTransient reports whether err is worth a bounded retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrFrameDetached)
}
