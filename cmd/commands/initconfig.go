package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [--config <path>] [--force]",
	Short: "Writes a config file with every default filled in (YAML for .yaml/.yml, JSON otherwise).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists, pass --force to overwrite it", configPath)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", configPath, err)
		}

		cfg := config.Defaults()
		if err := config.SaveConfig(&cfg, configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Add routes under monitoring.routes and enable a notification channel.\n", configPath)
		return nil
	},
}
