package commands

import (
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "CSV file to write (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--out <path/to/history.csv>]",
	Short: "Exports the full price history as CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		checks, err := a.store.AllChecks()
		if err != nil {
			return fmt.Errorf("failed to read price history: %w", err)
		}

		data, err := csvutil.Marshal(checks)
		if err != nil {
			return fmt.Errorf("failed to encode price history: %w", err)
		}

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		a.logger.Printf("Exported %d checks to %s", len(checks), exportOut)
		return nil
	},
}
