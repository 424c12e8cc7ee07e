package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserFetcherNavigationFailure(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no Chrome/Chromium installed")
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	closedURL := srv.URL
	srv.Close()

	cfg := config.Defaults().Scraper
	cfg.BaseURL = closedURL
	cfg.NavigationTimeoutSeconds = 10
	cfg.ScreenshotDir = t.TempDir()

	f := NewBrowserFetcher(cfg)
	f.SetLogger(log.New(io.Discard, "", 0))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	results, err := f.Fetch(ctx, config.Route{Name: "NYC-BOS", Origin: "New York, NY", Destination: "Boston, MA", Date: "2026-12-20"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigate "+closedURL)
	assert.Nil(t, results)
	assert.Equal(t, int32(0), f.live.Load(), "browser process left running")
}
