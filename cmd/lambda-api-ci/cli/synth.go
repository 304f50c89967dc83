package cli

import (
	"fmt"
	"os"

	"github.com/aws/jsii-runtime-go"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/logging"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/stack_cdk"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var synthOut string

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize the pipeline and API stacks (CDK app entrypoint)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()
		defer func() { _ = log.Sync() }()
		defer jsii.Close()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		if st, err := os.Stat(cfg.App.AssetPath); err != nil || !st.IsDir() {
			return fmt.Errorf("asset directory %q missing: build %s into it first", cfg.App.AssetPath, handlerPkg)
		}

		app, err := stack_cdk.NewApp(appOptions(cfg, synthOut))
		if err != nil {
			return err
		}

		dir := app.Synth()
		log.Info("synthesized",
			zap.String("outdir", dir),
			zap.Strings("stacks", app.StackNames()),
			zap.String("repository", cfg.Source.RepositoryName),
			zap.String("build_image", cfg.Pipeline.BuildImage),
		)
		return nil
	},
}

func init() {
	synthCmd.Flags().StringVar(&synthOut, "out", "", "cloud assembly directory (default: $CDK_OUTDIR or cdk.out)")

	rootCmd.AddCommand(synthCmd)
}

const handlerPkg = "./cmd/widgets-api"

func appOptions(cfg config.Config, outdir string) stack_cdk.AppOptions {
	return stack_cdk.AppOptions{
		Outdir:         outdir,
		Account:        cfg.AWS.Account,
		Region:         cfg.AWS.Region,
		CIStackName:    cfg.Pipeline.StackName,
		PipelineName:   cfg.Pipeline.Name,
		RepositoryName: cfg.Source.RepositoryName,
		Branch:         cfg.Source.Branch,
		BuildImage:     cfg.Pipeline.BuildImage,
		Target:         cfg.Target(),
		AssetPath:      cfg.App.AssetPath,
	}
}
