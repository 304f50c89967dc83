package cli

import (
	"fmt"
	"os"

	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [repository_name]",
	Short: "Write a config.yaml with defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgPath); err == nil && !initForce {
			return fmt.Errorf("%s exists (use --force to overwrite)", cfgPath)
		}

		cfg := config.Default()
		if len(args) == 1 {
			cfg.Source.RepositoryName = args[0]
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "written: %s\n", cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")

	rootCmd.AddCommand(initCmd)
}
