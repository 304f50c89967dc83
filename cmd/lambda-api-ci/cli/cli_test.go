package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION", "REPOSITORY_NAME", "APP_STACK_NAME", "FUNCTION_NAME", "BUILD_IMAGE"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "aws:\n  account: \"123456789012\"\n  region: eu-west-1\n" +
		"app:\n  stack_name: WidgetsStack\n  function_name: widgets-fn\n" +
		"watch:\n  pause_file: " + filepath.Join(dir, "paused") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestPolicy_JSON(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "policy", "--config", cfg, "--json")
	require.NoError(t, err)

	var grants []grantView
	require.NoError(t, json.Unmarshal([]byte(out), &grants))
	require.Len(t, grants, 2)
	assert.Contains(t, grants[0].Resources, "arn:${AWS::Partition}:cloudformation:eu-west-1:123456789012:stack/WidgetsStack/*")
	assert.Contains(t, grants[0].Resources, "arn:${AWS::Partition}:lambda:eu-west-1:123456789012:function:widgets-fn")
	assert.Equal(t, []string{"*"}, grants[1].Resources)
}

func TestPolicy_Table(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "policy", "--config", cfg, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "GRANT")
	assert.Contains(t, out, "iam:PassRole")
}

func TestBuildspec_Stdout(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "buildspec", "--config", cfg, "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "cdk deploy WidgetsStack --require-approval never")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "init", "my-repo", "--config", path, "--force=false")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "repository_name: my-repo")

	_, err = execute(t, "init", "--config", path, "--force=false")
	assert.Error(t, err)
}

func TestPauseResume(t *testing.T) {
	cfg := writeConfig(t)
	pause := filepath.Join(filepath.Dir(cfg), "paused")

	_, err := execute(t, "pause", "--config", cfg)
	require.NoError(t, err)
	_, err = os.Stat(pause)
	require.NoError(t, err)

	out, err := execute(t, "resume", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "resumed")
	_, err = os.Stat(pause)
	assert.True(t, os.IsNotExist(err))
}
