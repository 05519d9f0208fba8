// Package browser is the page-automation capability the extraction pipeline
// drives. Backends: headless Chrome (chromedp) and a static HTTP fetcher.
package browser

import (
	"context"
	"time"
)

// Browser is a process-wide session that hands out pages.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one tab. Every method honours ctx; Close must be safe to call on
// every exit path.
type Page interface {
	// Navigate loads url and returns once the document has loaded.
	Navigate(ctx context.Context, url string) error
	Wait(ctx context.Context, d time.Duration) error
	// Screenshot captures the visible viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	// QueryAll returns every element matching a CSS selector. No match is
	// an empty slice, not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// BodyText is the visible text of the whole page.
	BodyText(ctx context.Context) (string, error)
	URL() string
	Close() error
}

type Element interface {
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
}

const (
	BackendChrome = "chrome"
	BackendStatic = "static"
)
