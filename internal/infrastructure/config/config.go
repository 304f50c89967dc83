package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/davarch/lambda-api-ci/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRepositoryName = "widgets-service"
	DefaultCIStackName    = "LambdaApiCIStack"
	DefaultAppStackName   = "LambdaApiStack"
	DefaultFunctionName   = "widgets-service"
	DefaultBuildImage     = "standard-7.0"
	DefaultPipelineName   = "lambda-api-ci"
	DefaultAssetPath      = "dist/api"
)

type Config struct {
	AWS struct {
		Account string `yaml:"account,omitempty"`
		Region  string `yaml:"region,omitempty"`
	} `yaml:"aws"`

	Source struct {
		RepositoryName string `yaml:"repository_name"`
		Branch         string `yaml:"branch,omitempty"`
	} `yaml:"source"`

	Pipeline struct {
		Name       string `yaml:"name"`
		StackName  string `yaml:"stack_name"`
		BuildImage string `yaml:"build_image"`
	} `yaml:"pipeline"`

	App struct {
		StackName    string `yaml:"stack_name"`
		FunctionName string `yaml:"function_name"`
		AssetPath    string `yaml:"asset_path"`
	} `yaml:"app"`

	Watch struct {
		Interval  time.Duration `yaml:"interval"`
		PauseFile string        `yaml:"pause_file,omitempty"`
	} `yaml:"watch"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// Target is the deploy target the build role is scoped to.
func (c Config) Target() domain.DeployTarget {
	return domain.DeployTarget{
		ToolkitStackName: domain.ToolkitStackName,
		AppStackName:     c.App.StackName,
		FunctionName:     c.App.FunctionName,
		StagingBucket:    domain.ToolkitStagingBucket,
	}
}

func Default() Config {
	var c Config

	c.Source.RepositoryName = DefaultRepositoryName
	c.Pipeline.Name = DefaultPipelineName
	c.Pipeline.StackName = DefaultCIStackName
	c.Pipeline.BuildImage = DefaultBuildImage
	c.App.StackName = DefaultAppStackName
	c.App.FunctionName = DefaultFunctionName
	c.App.AssetPath = DefaultAssetPath
	c.Watch.Interval = 30 * time.Second
	c.Cache.Path = expandHome("~/.cache/lambda_api_ci.json")

	return c
}

// Load reads path (a missing file keeps the defaults), applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return c, err
		}
	}

	if v := os.Getenv("CDK_DEFAULT_ACCOUNT"); v != "" && c.AWS.Account == "" {
		c.AWS.Account = v
	}

	if v := os.Getenv("CDK_DEFAULT_REGION"); v != "" && c.AWS.Region == "" {
		c.AWS.Region = v
	}

	if v := os.Getenv("REPOSITORY_NAME"); v != "" {
		c.Source.RepositoryName = v
	}

	if v := os.Getenv("SOURCE_BRANCH"); v != "" {
		c.Source.Branch = v
	}

	if v := os.Getenv("PIPELINE_NAME"); v != "" {
		c.Pipeline.Name = v
	}

	if v := os.Getenv("BUILD_IMAGE"); v != "" {
		c.Pipeline.BuildImage = v
	}

	if v := os.Getenv("APP_STACK_NAME"); v != "" {
		c.App.StackName = v
	}

	if v := os.Getenv("FUNCTION_NAME"); v != "" {
		c.App.FunctionName = v
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		c.Watch.Interval = d
	}

	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}

	c.Cache.Path = expandHome(c.Cache.Path)
	if c.Watch.Interval <= 0 {
		c.Watch.Interval = 30 * time.Second
	}

	if c.Watch.PauseFile == "" {
		c.Watch.PauseFile = expandHome("~/.cache/lambda_api_ci_paused")
	} else {
		c.Watch.PauseFile = expandHome(c.Watch.PauseFile)
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Source.RepositoryName == "":
		return errors.New("source.repository_name is required")
	case c.Pipeline.StackName == "":
		return errors.New("pipeline.stack_name is required")
	case c.App.StackName == "":
		return errors.New("app.stack_name is required")
	case c.App.FunctionName == "":
		return errors.New("app.function_name is required")
	case c.App.StackName == c.Pipeline.StackName:
		return fmt.Errorf("app and pipeline stacks share the name %q", c.App.StackName)
	}

	if !KnownBuildImage(c.Pipeline.BuildImage) {
		return fmt.Errorf("unknown build image %q (want one of %v)", c.Pipeline.BuildImage, BuildImages)
	}

	for _, g := range domain.DeployGrants(c.Target()) {
		if err := g.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// BuildImages are the CodeBuild Linux standard images the pipeline accepts.
var BuildImages = []string{"standard-3.0", "standard-4.0", "standard-5.0", "standard-6.0", "standard-7.0"}

func KnownBuildImage(name string) bool {
	for _, n := range BuildImages {
		if n == name {
			return true
		}
	}
	return false
}

func Save(path string, c Config) error {
	if path == "" {
		return errors.New("empty config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return err
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func expandHome(p string) string {
	if len(p) > 1 && p[:2] == "~/" {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}
