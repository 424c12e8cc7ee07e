package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/scraper"
	"github.com/Cyvadra/farewatch/notify"
)

// maxPollPeriod bounds how long the idle loop sleeps between due-checks
const maxPollPeriod = time.Minute

// Notifier delivers a batch of alert messages
type Notifier interface {
	Dispatch(ctx context.Context, alerts []string) *notify.DispatchReport
}

// SweepSummary describes one completed sweep
type SweepSummary struct {
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	RoutesChecked int       `json:"routes_checked"`
	RoutesFailed  []string  `json:"routes_failed"`
	Results       int       `json:"results"`
	Alerts        []string  `json:"alerts"`
}

// Monitor runs the fetch, persist, evaluate and notify pipeline over every
// configured route, once or on a fixed interval.
type Monitor struct {
	cfg      *config.Config
	store    *HistoryStore
	fetcher  scraper.Fetcher
	notifier Notifier
	logger   *log.Logger

	interval   time.Duration
	routePause time.Duration
	pollPeriod time.Duration
	repeat     bool
	memory     *alertMemory
	now        func() time.Time

	// sweeps run one at a time even when triggered from the API
	sweepMu sync.Mutex
}

// NewMonitor creates a new monitor
func NewMonitor(cfg *config.Config, store *HistoryStore, fetcher scraper.Fetcher, notifier Notifier) *Monitor {
	interval := cfg.CheckInterval()
	return &Monitor{
		cfg:        cfg,
		store:      store,
		fetcher:    fetcher,
		notifier:   notifier,
		logger:     log.New(log.Writer(), "[Monitor] ", log.LstdFlags),
		interval:   interval,
		routePause: cfg.RoutePause(),
		pollPeriod: pollPeriodFor(interval),
		repeat:     cfg.ShouldRepeatAlerts(),
		memory:     newAlertMemory(),
		now:        time.Now,
	}
}

// SetLogger sets a custom logger
func (m *Monitor) SetLogger(logger *log.Logger) {
	m.logger = logger
}

// SetRoutePause overrides the pause between two route checks
func (m *Monitor) SetRoutePause(d time.Duration) {
	m.routePause = d
}

// SetSchedule overrides the sweep interval and the idle poll period
func (m *Monitor) SetSchedule(interval, pollPeriod time.Duration) {
	m.interval = interval
	m.pollPeriod = pollPeriod
}

func pollPeriodFor(interval time.Duration) time.Duration {
	if interval > 0 && interval < maxPollPeriod {
		return interval
	}
	return maxPollPeriod
}

// RunCheck runs a single sweep over all configured routes
func (m *Monitor) RunCheck(ctx context.Context) *SweepSummary {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	m.logger.Println("=== Starting monitoring check ===")
	summary := &SweepSummary{StartedAt: m.now()}

	routes := m.cfg.Monitoring.Routes
	var allAlerts []string

	for i, route := range routes {
		if ctx.Err() != nil {
			m.logger.Println("Check interrupted")
			break
		}

		alerts, n, err := m.checkRoute(ctx, route)
		summary.RoutesChecked++
		summary.Results += n
		if err != nil {
			m.logger.Printf("Error checking route %s: %v", route.Name, err)
			summary.RoutesFailed = append(summary.RoutesFailed, route.Name)
		}
		allAlerts = append(allAlerts, alerts...)

		if i < len(routes)-1 {
			m.pause(ctx)
		}
	}

	if len(allAlerts) > 0 {
		m.sendAlerts(ctx, allAlerts)
	}
	summary.Alerts = allAlerts
	summary.FinishedAt = m.now()

	m.logger.Println("=== Monitoring check complete ===")
	return summary
}

// checkRoute fetches, persists and evaluates one route. Errors and panics
// stay inside the route.
func (m *Monitor) checkRoute(ctx context.Context, route config.Route) (alerts []string, n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			alerts, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	results, err := m.fetcher.Fetch(ctx, route)
	if err != nil {
		return nil, 0, err
	}

	if len(results) == 0 {
		m.logger.Printf("No results found for %s", route.Name)
		if !m.repeat {
			m.memory.filter(route.Name, nil)
		}
		return nil, 0, nil
	}

	checkedAt := m.now()
	for _, result := range results {
		if err := m.store.RecordCheck(route, result, checkedAt); err != nil {
			m.logger.Printf("Failed to save result for %s: %v", route.Name, err)
		}
	}

	alerts = EvaluateAlerts(route, results)
	if !m.repeat {
		alerts = m.memory.filter(route.Name, alerts)
	}
	return alerts, len(results), nil
}

// sendAlerts dispatches the batch and records it whatever the channels did
func (m *Monitor) sendAlerts(ctx context.Context, alerts []string) {
	report := m.notifier.Dispatch(ctx, alerts)
	if err := report.Err(); err != nil {
		m.logger.Printf("%d notification channel(s) failed: %v", len(report.Failed), err)
	}

	if err := m.store.RecordAlert(report.Message, m.now()); err != nil {
		m.logger.Printf("Failed to record alert: %v", err)
	}
}

func (m *Monitor) pause(ctx context.Context) {
	if m.routePause <= 0 {
		return
	}
	t := time.NewTimer(m.routePause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Start runs a sweep immediately, then one every interval until ctx is done.
// Cancellation is the only way out and is not an error.
func (m *Monitor) Start(ctx context.Context) error {
	if m.interval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", m.interval)
	}

	m.logger.Printf("Starting monitor - checking every %s", m.interval)
	m.logger.Printf("Monitoring %d routes", len(m.cfg.Monitoring.Routes))

	m.RunCheck(ctx)
	next := m.now().Add(m.interval)

	ticker := time.NewTicker(m.pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Println("Monitor stopped")
			return nil
		case <-ticker.C:
			if m.now().Before(next) {
				continue
			}
			m.RunCheck(ctx)
			next = m.now().Add(m.interval)
		}
	}
}

// Routes returns the configured routes
func (m *Monitor) Routes() []config.Route {
	return m.cfg.Monitoring.Routes
}
