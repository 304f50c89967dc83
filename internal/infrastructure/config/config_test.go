package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION", "REPOSITORY_NAME", "SOURCE_BRANCH", "PIPELINE_NAME",
		"BUILD_IMAGE", "APP_STACK_NAME", "FUNCTION_NAME", "POLL_INTERVAL", "CACHE_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRepositoryName, c.Source.RepositoryName)
	assert.Equal(t, DefaultAppStackName, c.App.StackName)
	assert.Equal(t, DefaultFunctionName, c.App.FunctionName)
	assert.Equal(t, DefaultBuildImage, c.Pipeline.BuildImage)
	assert.Equal(t, 30*time.Second, c.Watch.Interval)
	assert.NotEmpty(t, c.Watch.PauseFile)
}

func TestLoad_FromYAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")

	yaml := `
aws:
  region: eu-west-1

source:
  repository_name: widgets-yaml

app:
  stack_name: WidgetsStack
  function_name: widgets-fn

watch:
  interval: 10s
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0644))

	t.Setenv("REPOSITORY_NAME", "widgets-env")
	t.Setenv("CDK_DEFAULT_REGION", "us-east-1")
	t.Setenv("CDK_DEFAULT_ACCOUNT", "123456789012")

	c, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, "widgets-env", c.Source.RepositoryName)
	assert.Equal(t, "eu-west-1", c.AWS.Region, "file region wins over CDK default")
	assert.Equal(t, "123456789012", c.AWS.Account)
	assert.Equal(t, "WidgetsStack", c.Target().AppStackName)
	assert.Equal(t, "widgets-fn", c.Target().FunctionName)
	assert.Equal(t, 10*time.Second, c.Watch.Interval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("source: [unclosed"), 0644))

	_, err := Load(cfgFile)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownBuildImage(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUILD_IMAGE", "standard-1.0")

	_, err := Load("")
	assert.ErrorContains(t, err, "unknown build image")
}

func TestValidate_RejectsSharedStackName(t *testing.T) {
	c := Default()
	c.App.StackName = c.Pipeline.StackName

	assert.Error(t, c.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := Default()
	c.Source.RepositoryName = "saved-repo"
	c.Watch.Interval = time.Minute
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-repo", got.Source.RepositoryName)
	assert.Equal(t, time.Minute, got.Watch.Interval)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_RejectsMalformedPollInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "every minute")

	_, err := Load("")
	assert.ErrorContains(t, err, "POLL_INTERVAL")
}
