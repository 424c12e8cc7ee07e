// Package scraper loads the booking site's search results for a route and
// turns the rendered rows into check results.
package scraper

import (
	"context"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
)

// Fetcher returns the current results for a route. An empty slice means no
// results were found or the page could not be read; callers do not tell the
// two apart.
type Fetcher interface {
	Fetch(ctx context.Context, route config.Route) ([]models.CheckResult, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, route config.Route) ([]models.CheckResult, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, route config.Route) ([]models.CheckResult, error) {
	return f(ctx, route)
}
