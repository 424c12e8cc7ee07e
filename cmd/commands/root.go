package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/database"
	"github.com/Cyvadra/farewatch/internal/scraper"
	"github.com/Cyvadra/farewatch/internal/services"
	"github.com/Cyvadra/farewatch/notify"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configPath string
	runOnce    bool
)

var rootCmd = &cobra.Command{
	Use:          "farewatch",
	Short:        "Watches a rail booking site for ticket availability and price drops.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		monitor := a.newMonitor()
		if runOnce {
			monitor.RunCheck(cmd.Context())
			return nil
		}
		return monitor.Start(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.json", "Path to config file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run once and exit (no continuous monitoring)")
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the process-wide collaborators built from the config file
type app struct {
	cfg     *config.Config
	out     io.Writer
	logger  *log.Logger
	db      *gorm.DB
	store   *services.HistoryStore
	logFile *os.File
}

func newApp(path string) (*app, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, out: os.Stdout}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.out = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(a.out)
	a.logger = a.newLogger("")

	db, err := database.InitDatabase(cfg.Database.Path, a.newLogger("[Database] "))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	a.store = services.NewHistoryStore(db)

	return a, nil
}

func (a *app) newLogger(prefix string) *log.Logger {
	return log.New(a.out, prefix, log.LstdFlags)
}

func (a *app) newMonitor() *services.Monitor {
	fetcher := scraper.NewBrowserFetcher(a.cfg.Scraper)
	fetcher.SetLogger(a.newLogger("[Scraper] "))

	dispatcher := notify.NewDispatcherFromConfig(a.cfg.Monitoring.Notifications)
	dispatcher.SetLogger(a.newLogger("[Notify] "))
	if channels := dispatcher.Channels(); len(channels) > 0 {
		a.logger.Printf("Notification channels: %s", strings.Join(channels, ", "))
	} else {
		a.logger.Printf("No notification channels enabled, alerts will only be recorded")
	}

	monitor := services.NewMonitor(a.cfg, a.store, fetcher, dispatcher)
	monitor.SetLogger(a.newLogger("[Monitor] "))
	return monitor
}

// Close releases the database and the log file
func (a *app) Close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Printf("Failed to close database: %v", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
