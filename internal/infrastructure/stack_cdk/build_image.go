package stack_cdk

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
)

// BuildImage maps a config image name to a CodeBuild Linux standard image.
func BuildImage(name string) (awscodebuild.IBuildImage, error) {
	switch name {
	case "standard-3.0":
		return awscodebuild.LinuxBuildImage_STANDARD_3_0(), nil
	case "standard-4.0":
		return awscodebuild.LinuxBuildImage_STANDARD_4_0(), nil
	case "standard-5.0":
		return awscodebuild.LinuxBuildImage_STANDARD_5_0(), nil
	case "standard-6.0":
		return awscodebuild.LinuxBuildImage_STANDARD_6_0(), nil
	case "standard-7.0":
		return awscodebuild.LinuxBuildImage_STANDARD_7_0(), nil
	default:
		return nil, fmt.Errorf("unknown build image %q", name)
	}
}
