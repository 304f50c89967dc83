package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause pipeline polling of a running watcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.Watch.PauseFile); err == nil {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no change (already paused)")
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Watch.PauseFile), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Watch.PauseFile, nil, 0o644); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused: %s\n", cfg.Watch.PauseFile)
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume pipeline polling",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		err = os.Remove(cfg.Watch.PauseFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no change (not paused)")
			return nil
		case err != nil:
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "resumed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}
