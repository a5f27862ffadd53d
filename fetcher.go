package olxscrape

import (
	"context"
	"time"
)

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET request and returns the response body as UTF-8 text.
	// Network failures, timeouts and non-2xx responses return EUNAVAILABLE.
	// The context controls cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Default request timeouts. Detail pages are heavier than result pages.
const (
	DefaultListTimeout   = 10 * time.Second
	DefaultDetailTimeout = 15 * time.Second
)

// TransportConfig is the identity profile and timeout budget for the
// transport. It is built once and never modified after being handed to a
// Fetcher.
type TransportConfig struct {
	Headers       map[string]string
	ListTimeout   time.Duration
	DetailTimeout time.Duration
}

// DefaultTransportConfig returns the browser-like identity used against
// the marketplace.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Headers: map[string]string{
			"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "pl-PL,pl;q=0.9,en;q=0.8",
			"DNT":                       "1",
			"Upgrade-Insecure-Requests": "1",
		},
		ListTimeout:   DefaultListTimeout,
		DetailTimeout: DefaultDetailTimeout,
	}
}
