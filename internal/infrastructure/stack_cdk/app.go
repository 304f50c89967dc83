package stack_cdk

import (
	"errors"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/davarch/lambda-api-ci/internal/domain"
)

type AppOptions struct {
	// Outdir overrides the cloud assembly directory; empty defers to
	// CDK_OUTDIR or the CDK default.
	Outdir  string
	Account string
	Region  string

	CIStackName    string
	PipelineName   string
	RepositoryName string
	Branch         string
	BuildImage     string

	Target    domain.DeployTarget
	AssetPath string
}

type App struct {
	awscdk.App

	CI  *CIStack
	Api *LambdaApiStack
}

// NewApp declares both stacks in one app. The API stack is named after the
// deploy target so the build role's grants match what it deploys.
func NewApp(opts AppOptions) (*App, error) {
	if opts.RepositoryName == "" {
		return nil, errors.New("repository name is required")
	}
	if opts.Target.AppStackName == "" || opts.CIStackName == "" {
		return nil, errors.New("stack names are required")
	}

	image, err := BuildImage(opts.BuildImage)
	if err != nil {
		return nil, err
	}

	var appProps *awscdk.AppProps
	if opts.Outdir != "" {
		appProps = &awscdk.AppProps{Outdir: jsii.String(opts.Outdir)}
	}
	app := awscdk.NewApp(appProps)

	env := environment(opts.Account, opts.Region)

	ci := NewCIStack(app, opts.CIStackName, &CIStackProps{
		StackProps:     stackProps(env),
		RepositoryName: opts.RepositoryName,
		Branch:         opts.Branch,
		PipelineName:   opts.PipelineName,
		BuildImage:     image,
		Target:         opts.Target,
	})

	api := NewLambdaApiStack(app, opts.Target.AppStackName, &LambdaApiStackProps{
		StackProps:   stackProps(env),
		FunctionName: opts.Target.FunctionName,
		AssetPath:    opts.AssetPath,
	})

	return &App{App: app, CI: ci, Api: api}, nil
}

// Synth writes the cloud assembly and returns its directory.
func (a *App) Synth() string {
	return *a.App.Synth(nil).Directory()
}

func (a *App) StackNames() []string {
	return []string{*a.CI.StackName(), *a.Api.StackName()}
}

// stackProps pins the legacy synthesizer: assets go to the CDKToolkit
// staging bucket and no bootstrap roles are assumed, which is all the build
// role is granted.
func stackProps(env *awscdk.Environment) awscdk.StackProps {
	return awscdk.StackProps{
		Env:         env,
		Synthesizer: awscdk.NewLegacyStackSynthesizer(),
	}
}

func environment(account, region string) *awscdk.Environment {
	if account == "" && region == "" {
		return nil
	}

	env := &awscdk.Environment{}
	if account != "" {
		env.Account = jsii.String(account)
	}
	if region != "" {
		env.Region = jsii.String(region)
	}
	return env
}
