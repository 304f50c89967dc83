package buildspec_yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testSpec = Spec{
	AppStackName: "LambdaApiStack",
	AssetPath:    "dist/api",
	HandlerPkg:   "./cmd/widgets-api",
}

func TestRender_DeploysAppStack(t *testing.T) {
	b, err := Render(testSpec)
	require.NoError(t, err)

	var d document
	require.NoError(t, yaml.Unmarshal(b, &d))

	assert.Equal(t, "0.2", d.Version)
	assert.Equal(t, "0", d.Env.Variables["CGO_ENABLED"])
	assert.Contains(t, d.Phases.Install.Commands, "npm install -g aws-cdk@2")
	assert.Equal(t, []string{
		"go test ./...",
		"GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -o dist/api/bootstrap ./cmd/widgets-api",
		"cdk deploy LambdaApiStack --require-approval never",
	}, d.Phases.Build.Commands)
	assert.Equal(t, "cdk.out", d.Artifacts.BaseDirectory)
}

func TestRender_PinnedCDKVersion(t *testing.T) {
	s := testSpec
	s.CDKVersion = "2.150.0"

	b, err := Render(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), "npm install -g aws-cdk@2.150.0")
}

func TestRender_RequiresFields(t *testing.T) {
	_, err := Render(Spec{AssetPath: "dist", HandlerPkg: "./x"})
	assert.Error(t, err)

	_, err = Render(Spec{AppStackName: "S", HandlerPkg: "./x"})
	assert.Error(t, err)

	_, err = Render(Spec{AppStackName: "S", AssetPath: "dist"})
	assert.Error(t, err)
}

func TestWrite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci", "buildspec.yml")

	require.NoError(t, Write(path, testSpec))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "cdk deploy LambdaApiStack")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
