package stack_cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/jsii-runtime-go"
	"github.com/davarch/lambda-api-ci/internal/domain"
)

// CreateBuildStage declares the build project, grants its role the deploy
// permissions and appends the build stage. It returns the build output.
func (s *CIStack) CreateBuildStage(pipeline awscodepipeline.Pipeline, sourceOutput awscodepipeline.Artifact) awscodepipeline.Artifact {
	image := s.props.BuildImage
	if image == nil {
		image = awscodebuild.LinuxBuildImage_STANDARD_3_0()
	}

	s.Project = awscodebuild.NewPipelineProject(s.Stack, jsii.String("BuildProject"), &awscodebuild.PipelineProjectProps{
		Environment: &awscodebuild.BuildEnvironment{
			BuildImage: image,
		},
	})

	for _, g := range domain.DeployGrants(s.props.Target) {
		s.Project.AddToRolePolicy(s.policyStatement(g))
	}

	buildOutput := awscodepipeline.NewArtifact(jsii.String(domain.ArtifactBuild))
	buildAction := awscodepipelineactions.NewCodeBuildAction(&awscodepipelineactions.CodeBuildActionProps{
		ActionName: jsii.String(domain.ActionBuild),
		Project:    s.Project,
		Input:      sourceOutput,
		Outputs:    &[]awscodepipeline.Artifact{buildOutput},
	})

	pipeline.AddStage(&awscodepipeline.StageOptions{
		StageName: jsii.String(domain.StageBuild),
		Actions:   &[]awscodepipeline.IAction{buildAction},
	})

	return buildOutput
}

func (s *CIStack) policyStatement(g domain.Grant) awsiam.PolicyStatement {
	resources := make([]*string, 0, len(g.Resources))
	for _, r := range g.Resources {
		resources = append(resources, s.resourceArn(r))
	}

	return awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings(g.Actions...),
		Resources: &resources,
	})
}

func (s *CIStack) resourceArn(r domain.Resource) *string {
	if r.Arn == nil {
		return jsii.String(r.Literal)
	}

	format := awscdk.ArnFormat_SLASH_RESOURCE_NAME
	if r.Arn.Separator() == ":" {
		format = awscdk.ArnFormat_COLON_RESOURCE_NAME
	}

	return s.Stack.FormatArn(&awscdk.ArnComponents{
		Service:      jsii.String(r.Arn.Service),
		Resource:     jsii.String(r.Arn.Resource),
		ResourceName: jsii.String(r.Arn.ResourceName),
		ArnFormat:    format,
	})
}
