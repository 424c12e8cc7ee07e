package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserFetcher drives a headless Chrome through the booking site's search
// form. Every call gets its own browser process, torn down before returning.
type BrowserFetcher struct {
	cfg    config.ScraperConfig
	logger *log.Logger
	now    func() time.Time

	// live counts launched browsers not yet cleaned up
	live atomic.Int32
}

// NewBrowserFetcher creates a new browser-backed fetcher
func NewBrowserFetcher(cfg config.ScraperConfig) *BrowserFetcher {
	return &BrowserFetcher{
		cfg:    cfg,
		logger: log.New(log.Writer(), "[Scraper] ", log.LstdFlags),
		now:    time.Now,
	}
}

// SetLogger sets a custom logger
func (f *BrowserFetcher) SetLogger(logger *log.Logger) {
	f.logger = logger
}

// session is one launched browser with its single page
type session struct {
	lnch    *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
	live    *atomic.Int32
}

func (s *session) close() {
	if s.browser != nil {
		s.browser.Close()
	}
	if s.lnch != nil {
		// Cleanup waits for the browser process to exit
		s.lnch.Cleanup()
		s.live.Add(-1)
	}
}

// Fetch loads the results page for route and extracts up to MaxResults rows
func (f *BrowserFetcher) Fetch(ctx context.Context, route config.Route) (results []models.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("browser session panicked: %v", r)
		}
	}()

	f.logger.Printf("Checking route: %s (%s -> %s)", route.Name, route.Origin, route.Destination)

	s, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	defer s.close()

	if err := f.navigate(ctx, s.page); err != nil {
		return nil, err
	}

	searchErr := f.search(ctx, s.page, route)

	// The screenshot is kept whether or not the search went through
	f.screenshot(s.page, route)

	if searchErr != nil {
		return nil, searchErr
	}

	html, err := s.page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}

	results, err = ExtractResults(html, f.cfg.Selectors, f.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		f.logger.Printf("No trains found for %s - selectors may need adjusting", route.Name)
	}
	return results, nil
}

func (f *BrowserFetcher) open(ctx context.Context) (*session, error) {
	l := launcher.New().
		Headless(!f.cfg.Headful).
		Set("disable-blink-features", "AutomationControlled")
	if os.Geteuid() == 0 {
		// Chrome refuses to start its sandbox as root
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	f.live.Add(1)
	s := &session{lnch: l, live: &f.live}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		s.close()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if f.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.cfg.UserAgent}); err != nil {
			f.logger.Printf("Failed to set user agent: %v", err)
		}
	}
	return s, nil
}

func (f *BrowserFetcher) navigate(ctx context.Context, page *rod.Page) error {
	navCtx, cancel := context.WithTimeout(ctx, f.timeout(f.cfg.NavigationTimeoutSeconds))
	defer cancel()

	p := page.Context(navCtx)
	if err := p.Navigate(f.cfg.BaseURL); err != nil {
		return fmt.Errorf("navigate %s: %w", f.cfg.BaseURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", f.cfg.BaseURL, err)
	}
	return nil
}

// search fills the form, submits it and waits until the network goes quiet
func (f *BrowserFetcher) search(ctx context.Context, page *rod.Page, route config.Route) error {
	formCtx, cancel := context.WithTimeout(ctx, f.timeout(f.cfg.ResultsTimeoutSeconds))
	defer cancel()

	p := page.Context(formCtx)
	sel := f.cfg.Selectors

	if err := fillText(p, sel.Origin, route.Origin); err != nil {
		return fmt.Errorf("fill origin: %w", err)
	}
	if err := fillText(p, sel.Destination, route.Destination); err != nil {
		return fmt.Errorf("fill destination: %w", err)
	}
	if err := fillDate(p, sel.Date, route.Date); err != nil {
		return fmt.Errorf("fill date: %w", err)
	}

	button, err := findSearchButton(p, sel)
	if err != nil {
		return fmt.Errorf("find search button: %w", err)
	}

	waitIdle := p.WaitRequestIdle(time.Second, nil, nil, nil)
	if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click search: %w", err)
	}
	waitIdle()

	if err := p.WaitStable(2 * time.Second); err != nil {
		return fmt.Errorf("wait for results: %w", err)
	}
	return nil
}

func fillText(p *rod.Page, selector, value string) error {
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	// Date pickers and prefilled inputs may refuse a selection; typing still works
	_ = el.SelectAllText()
	return el.Input(value)
}

func fillDate(p *rod.Page, selector, value string) error {
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	typ, err := el.Attribute("type")
	if err == nil && typ != nil && *typ == "date" {
		if t, perr := time.Parse("2006-01-02", value); perr == nil {
			return el.InputTime(t)
		}
	}
	_ = el.SelectAllText()
	return el.Input(value)
}

func findSearchButton(p *rod.Page, sel config.SelectorsConfig) (*rod.Element, error) {
	if sel.SearchText != "" {
		has, el, err := p.HasR("button", regexp.QuoteMeta(sel.SearchText))
		if err == nil && has {
			return el, nil
		}
	}
	return p.Element(sel.SearchButton)
}

func (f *BrowserFetcher) screenshot(page *rod.Page, route config.Route) {
	data, err := page.Screenshot(true, nil)
	if err != nil {
		f.logger.Printf("Failed to capture screenshot for %s: %v", route.Name, err)
		return
	}

	path := ScreenshotPath(f.cfg.ScreenshotDir, route.Name, f.now())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.logger.Printf("Failed to create screenshot directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		f.logger.Printf("Failed to save screenshot: %v", err)
		return
	}
	f.logger.Printf("Screenshot saved: %s", path)
}

func (f *BrowserFetcher) timeout(seconds int) time.Duration {
	if seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotPath returns the debugging screenshot location for a route check
func ScreenshotPath(dir, routeName string, at time.Time) string {
	name := unsafeFileChars.ReplaceAllString(routeName, "_")
	return filepath.Join(dir, fmt.Sprintf("screenshot_%s_%s.png", name, at.Format("20060102_150405")))
}
