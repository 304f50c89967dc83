package stack_cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type LambdaApiStackProps struct {
	awscdk.StackProps

	FunctionName string
	// AssetPath is the directory holding the compiled bootstrap binary.
	AssetPath string
}

// LambdaApiStack is the application the pipeline deploys: one function
// behind a proxying REST API.
type LambdaApiStack struct {
	awscdk.Stack

	Function awslambda.Function
	Api      awsapigateway.LambdaRestApi
}

func NewLambdaApiStack(scope constructs.Construct, id string, props *LambdaApiStackProps) *LambdaApiStack {
	if props == nil {
		props = &LambdaApiStackProps{}
	}

	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	fnProps := &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String(props.AssetPath), nil),
		MemorySize:   jsii.Number(128),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(10)),
	}
	if props.FunctionName != "" {
		fnProps.FunctionName = jsii.String(props.FunctionName)
	}
	fn := awslambda.NewFunction(stack, jsii.String("WidgetsHandler"), fnProps)

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("WidgetsApi"), &awsapigateway.LambdaRestApiProps{
		Handler:     fn,
		RestApiName: jsii.String(id),
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{
		Value: api.Url(),
	})

	return &LambdaApiStack{Stack: stack, Function: fn, Api: api}
}
