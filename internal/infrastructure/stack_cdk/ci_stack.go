package stack_cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodecommit"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/davarch/lambda-api-ci/internal/domain"
)

type CIStackProps struct {
	awscdk.StackProps

	RepositoryName string
	// Branch is the branch the source action follows; empty keeps the CDK default.
	Branch       string
	PipelineName string
	BuildImage   awscodebuild.IBuildImage
	Target       domain.DeployTarget
}

// CIStack is the push-to-deploy pipeline: Source (CodeCommit) then build
// (CodeBuild running cdk deploy of the API stack).
type CIStack struct {
	awscdk.Stack

	props *CIStackProps

	Pipeline     awscodepipeline.Pipeline
	Project      awscodebuild.PipelineProject
	SourceOutput awscodepipeline.Artifact
	BuildOutput  awscodepipeline.Artifact
}

func NewCIStack(scope constructs.Construct, id string, props *CIStackProps) *CIStack {
	if props == nil {
		props = &CIStackProps{}
	}

	if err := domain.Layout().Validate(); err != nil {
		panic(err)
	}

	stack := awscdk.NewStack(scope, &id, &props.StackProps)
	s := &CIStack{Stack: stack, props: props}

	var pipelineProps *awscodepipeline.PipelineProps
	if props.PipelineName != "" {
		pipelineProps = &awscodepipeline.PipelineProps{PipelineName: jsii.String(props.PipelineName)}
	}
	s.Pipeline = awscodepipeline.NewPipeline(stack, jsii.String("Pipeline"), pipelineProps)

	repo := awscodecommit.Repository_FromRepositoryName(
		stack,
		jsii.String("WidgetsServiceRepository"),
		jsii.String(props.RepositoryName),
	)

	s.SourceOutput = awscodepipeline.NewArtifact(jsii.String(domain.ArtifactSource))

	sourceProps := &awscodepipelineactions.CodeCommitSourceActionProps{
		ActionName: jsii.String(domain.ActionSource),
		Repository: repo,
		Output:     s.SourceOutput,
	}
	if props.Branch != "" {
		sourceProps.Branch = jsii.String(props.Branch)
	}

	s.Pipeline.AddStage(&awscodepipeline.StageOptions{
		StageName: jsii.String(domain.StageSource),
		Actions:   &[]awscodepipeline.IAction{awscodepipelineactions.NewCodeCommitSourceAction(sourceProps)},
	})

	s.BuildOutput = s.CreateBuildStage(s.Pipeline, s.SourceOutput)

	return s
}
