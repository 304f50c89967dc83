package cli

import (
	"fmt"

	"github.com/davarch/lambda-api-ci/internal/infrastructure/buildspec_yaml"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	buildspecOut        string
	buildspecCDKVersion string
)

var buildspecCmd = &cobra.Command{
	Use:   "buildspec",
	Short: "Write the buildspec.yml run by the build stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		spec := buildspec_yaml.Spec{
			AppStackName: cfg.App.StackName,
			AssetPath:    cfg.App.AssetPath,
			HandlerPkg:   handlerPkg,
			CDKVersion:   buildspecCDKVersion,
		}

		if buildspecOut == "-" {
			b, err := buildspec_yaml.Render(spec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		}

		if err := buildspec_yaml.Write(buildspecOut, spec); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "written: %s\n", buildspecOut)
		return nil
	},
}

func init() {
	buildspecCmd.Flags().StringVar(&buildspecOut, "out", "buildspec.yml", `output path ("-" for stdout)`)
	buildspecCmd.Flags().StringVar(&buildspecCDKVersion, "cdk-version", "", "pin the CDK CLI version installed in the build")

	rootCmd.AddCommand(buildspecCmd)
}
