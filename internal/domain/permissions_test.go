package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget() DeployTarget {
	return DeployTarget{AppStackName: "LambdaApiStack", FunctionName: "widgets-service"}
}

func TestDeployGrants_TwoValidGrants(t *testing.T) {
	grants := DeployGrants(testTarget())

	require.Len(t, grants, 2)
	for _, g := range grants {
		assert.NoError(t, g.Validate(), g.Name)
	}
}

func TestDeployGrants_ScopedResources(t *testing.T) {
	g := DeployGrants(testTarget())[0]

	got := make([]string, 0, len(g.Resources))
	for _, r := range g.Resources {
		if r.Arn != nil {
			got = append(got, r.Arn.Format("aws", "eu-west-1", "123456789012"))
			continue
		}
		got = append(got, r.Literal)
	}

	assert.Equal(t, []string{
		"arn:aws:cloudformation:eu-west-1:123456789012:stack/CDKToolkit/*",
		"arn:aws:cloudformation:eu-west-1:123456789012:stack/LambdaApiStack/*",
		"arn:aws:lambda:eu-west-1:123456789012:function:widgets-service",
		"arn:aws:s3:::cdktoolkit-stagingbucket-*",
	}, got)
	assert.Contains(t, g.Actions, "lambda:UpdateFunctionCode")
	assert.Contains(t, g.Actions, "cloudformation:ExecuteChangeSet")
	assert.Len(t, g.Actions, 17)
}

func TestDeployGrants_DependenciesUnscoped(t *testing.T) {
	g := DeployGrants(testTarget())[1]

	require.Len(t, g.Resources, 1)
	assert.Equal(t, "*", g.Resources[0].String())
	assert.Len(t, g.Actions, 12)
	assert.Contains(t, g.Actions, "iam:PassRole")
	assert.Contains(t, g.Actions, "apigateway:PATCH")
}

func TestResource_StringUsesPseudoParameters(t *testing.T) {
	r := Arn(ArnRef{Service: "lambda", Resource: "function", ResourceName: "fn", Sep: ":"})

	assert.Equal(t, "arn:${AWS::Partition}:lambda:${AWS::Region}:${AWS::AccountId}:function:fn", r.String())
}

func TestGrant_ValidateRejectsMalformed(t *testing.T) {
	cases := []Grant{
		{Name: "no actions", Resources: []Resource{Literal("*")}},
		{Name: "no resources", Actions: []string{"s3:GetObject"}},
		{Name: "bad action", Actions: []string{"GetObject"}, Resources: []Resource{Literal("*")}},
		{Name: "space", Actions: []string{"s3:Get Object"}, Resources: []Resource{Literal("*")}},
		{Name: "empty literal", Actions: []string{"s3:GetObject"}, Resources: []Resource{{}}},
		{Name: "bad arn", Actions: []string{"s3:GetObject"}, Resources: []Resource{Arn(ArnRef{Service: "s3"})}},
	}

	for _, g := range cases {
		assert.Error(t, g.Validate(), g.Name)
	}
}
