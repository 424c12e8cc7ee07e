package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Cyvadra/farewatch/internal/handlers"
	"github.com/Cyvadra/farewatch/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--config <path>]",
	Short: "Runs the monitor loop and serves the check history over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		monitor := a.newMonitor()

		gin.SetMode(gin.ReleaseMode)
		gin.DefaultWriter = a.out
		r := gin.New()
		r.Use(gin.Logger())
		r.Use(gin.Recovery())
		routes.SetupRoutes(r, handlers.NewHistoryHandler(a.store, monitor))

		addr := fmt.Sprintf("%s:%s", a.cfg.Server.Host, a.cfg.Server.Port)
		srv := &http.Server{Addr: addr, Handler: r}
		return runServer(ctx, srv, monitor, a.logger)
	},
}

// loopRunner is the part of the monitor the server runs alongside
type loopRunner interface {
	Start(ctx context.Context) error
}

// runServer serves srv and runs the monitor loop until ctx is done or either
// side stops. The monitor has always returned before runServer does.
func runServer(ctx context.Context, srv *http.Server, monitor loopRunner, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitorDone := make(chan error, 1)
	go func() {
		monitorDone <- monitor.Start(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var monitorErr error
	monitorStopped := false
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		cancel()
		<-monitorDone
		return fmt.Errorf("failed to start server: %w", err)
	case monitorErr = <-monitorDone:
		monitorStopped = true
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	cancel()
	if !monitorStopped {
		monitorErr = <-monitorDone
	}
	if shutdownErr != nil {
		return fmt.Errorf("http server shutdown error: %w", shutdownErr)
	}
	return monitorErr
}
