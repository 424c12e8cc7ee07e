package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestFetcherFunc(t *testing.T) {
	price := 25.0
	var f Fetcher = FetcherFunc(func(ctx context.Context, route config.Route) ([]models.CheckResult, error) {
		if route.Name == "broken" {
			return nil, errors.New("timeout")
		}
		return []models.CheckResult{{Available: true, Price: &price, TrainNumber: route.Name}}, nil
	})

	results, err := f.Fetch(context.Background(), config.Route{Name: "A1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A1", results[0].TrainNumber)

	results, err = f.Fetch(context.Background(), config.Route{Name: "broken"})
	assert.Error(t, err)
	assert.Empty(t, results)
}
