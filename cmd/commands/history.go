package commands

import (
	"fmt"
	"io"

	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyRoute string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyRoute, "route", "", "Only show checks of this route")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of rows to show per table")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--route <name>] [--limit <n>]",
	Short: "Prints the most recent checks and alerts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		checks, err := a.store.RecentChecks(historyRoute, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read checks: %w", err)
		}
		alerts, err := a.store.RecentAlerts(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read alerts: %w", err)
		}

		out := cmd.OutOrStdout()
		renderChecks(out, checks)
		fmt.Fprintln(out)
		renderAlerts(out, alerts)
		return nil
	},
}

func renderChecks(out io.Writer, checks []models.PriceHistory) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Checks")
	t.AppendHeader(table.Row{"Checked", "Route", "Date", "Train", "Departs", "Arrives", "Price", "Available"})
	for _, c := range checks {
		t.AppendRow(table.Row{
			c.CheckedAt.Format("2006-01-02 15:04:05"),
			c.RouteName,
			c.Date,
			c.TrainNumber,
			c.DepartureTime,
			c.ArrivalTime,
			formatPrice(c.Price),
			c.Available,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderAlerts(out io.Writer, alerts []models.AlertRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Alerts")
	t.AppendHeader(table.Row{"Sent", "Type", "Details"})
	for _, a := range alerts {
		t.AppendRow(table.Row{a.SentAt.Format("2006-01-02 15:04:05"), a.AlertType, a.Details})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func formatPrice(p *float64) string {
	if p == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("$%.2f", *p)
}
