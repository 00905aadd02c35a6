package scraper

import (
	"context"

	"rosterscraper/pkg/roster"
)

// Fetcher is the browser-automation capability: it navigates to the
// page for one course identifier and returns the rendered HTML. The
// loop depends only on the returned markup, not on any particular
// automation technology.
type Fetcher interface {
	Fetch(ctx context.Context, course int) (string, error)
}

// Store persists the accumulated result set between and across runs.
type Store interface {
	Load() (*roster.Set, error)
	Save(set *roster.Set) error
}
