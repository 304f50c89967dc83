package domain

import (
	"fmt"
	"strings"
)

const (
	ToolkitStackName     = "CDKToolkit"
	ToolkitStagingBucket = "arn:aws:s3:::cdktoolkit-stagingbucket-*"
)

// DeployTarget names what the build project is allowed to deploy.
type DeployTarget struct {
	ToolkitStackName string
	AppStackName     string
	FunctionName     string
	StagingBucket    string
}

// ArnRef is an ARN relative to the deploying stack's partition, region and
// account. An empty Sep means "/".
type ArnRef struct {
	Service      string
	Resource     string
	ResourceName string
	Sep          string
}

func (a ArnRef) Separator() string {
	if a.Sep == "" {
		return "/"
	}
	return a.Sep
}

func (a ArnRef) Format(partition, region, account string) string {
	return fmt.Sprintf("arn:%s:%s:%s:%s:%s%s%s",
		partition, a.Service, region, account, a.Resource, a.Separator(), a.ResourceName)
}

// Resource is either a literal ARN/wildcard or an ArnRef.
type Resource struct {
	Literal string
	Arn     *ArnRef
}

func Literal(s string) Resource { return Resource{Literal: s} }

func Arn(ref ArnRef) Resource { return Resource{Arn: &ref} }

func (r Resource) String() string {
	if r.Arn != nil {
		return r.Arn.Format("${AWS::Partition}", "${AWS::Region}", "${AWS::AccountId}")
	}
	return r.Literal
}

type Grant struct {
	Name      string
	Actions   []string
	Resources []Resource
}

func (g Grant) Validate() error {
	if len(g.Actions) == 0 {
		return fmt.Errorf("grant %q: no actions", g.Name)
	}
	if len(g.Resources) == 0 {
		return fmt.Errorf("grant %q: no resources", g.Name)
	}

	for _, a := range g.Actions {
		svc, op, ok := strings.Cut(a, ":")
		if !ok || svc == "" || op == "" || strings.ContainsAny(a, " \t") {
			return fmt.Errorf("grant %q: malformed action %q", g.Name, a)
		}
	}

	for _, r := range g.Resources {
		if r.Arn == nil && r.Literal == "" {
			return fmt.Errorf("grant %q: empty resource", g.Name)
		}
		if r.Arn != nil && (r.Arn.Service == "" || r.Arn.Resource == "") {
			return fmt.Errorf("grant %q: arn without service or resource type", g.Name)
		}
	}

	return nil
}

func (t DeployTarget) withDefaults() DeployTarget {
	if t.ToolkitStackName == "" {
		t.ToolkitStackName = ToolkitStackName
	}
	if t.StagingBucket == "" {
		t.StagingBucket = ToolkitStagingBucket
	}
	return t
}

// DeployGrants returns the statements the build role needs to run
// `cdk deploy` of the application stack and its function.
func DeployGrants(t DeployTarget) []Grant {
	t = t.withDefaults()

	return []Grant{
		{
			Name: "CdkDeploy",
			Actions: []string{
				"cloudformation:GetTemplate",
				"cloudformation:CreateChangeSet",
				"cloudformation:DescribeChangeSet",
				"cloudformation:ExecuteChangeSet",
				"cloudformation:DescribeStackEvents",
				"cloudformation:DeleteChangeSet",
				"cloudformation:DescribeStacks",
				"s3:*Object",
				"s3:ListBucket",
				"s3:getBucketLocation",
				"lambda:UpdateFunctionCode",
				"lambda:GetFunction",
				"lambda:CreateFunction",
				"lambda:DeleteFunction",
				"lambda:GetFunctionConfiguration",
				"lambda:AddPermission",
				"lambda:RemovePermission",
			},
			Resources: []Resource{
				Arn(ArnRef{Service: "cloudformation", Resource: "stack", ResourceName: t.ToolkitStackName + "/*"}),
				Arn(ArnRef{Service: "cloudformation", Resource: "stack", ResourceName: t.AppStackName + "/*"}),
				Arn(ArnRef{Service: "lambda", Resource: "function", ResourceName: t.FunctionName, Sep: ":"}),
				Literal(t.StagingBucket),
			},
		},
		{
			Name: "EditOrCreateLambdaDependencies",
			Actions: []string{
				"iam:GetRole",
				"iam:PassRole",
				"iam:CreateRole",
				"iam:AttachRolePolicy",
				"iam:PutRolePolicy",
				"apigateway:GET",
				"apigateway:DELETE",
				"apigateway:PUT",
				"apigateway:POST",
				"apigateway:PATCH",
				"s3:CreateBucket",
				"s3:PutBucketTagging",
			},
			Resources: []Resource{Literal("*")},
		},
	}
}
