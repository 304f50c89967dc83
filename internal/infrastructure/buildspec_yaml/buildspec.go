package buildspec_yaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Spec holds the values the generated buildspec depends on.
type Spec struct {
	AppStackName string
	AssetPath    string
	HandlerPkg   string
	// CDKVersion pins the CDK CLI installed in the build; empty means latest 2.x.
	CDKVersion string
}

type phase struct {
	Commands []string `yaml:"commands"`
}

type document struct {
	Version string `yaml:"version"`
	Env     struct {
		Variables map[string]string `yaml:"variables"`
	} `yaml:"env"`
	Phases struct {
		Install phase `yaml:"install"`
		Build   phase `yaml:"build"`
	} `yaml:"phases"`
	Artifacts struct {
		BaseDirectory string   `yaml:"base-directory"`
		Files         []string `yaml:"files"`
	} `yaml:"artifacts"`
}

func (s Spec) validate() error {
	switch {
	case s.AppStackName == "":
		return errors.New("buildspec: app stack name is required")
	case s.AssetPath == "":
		return errors.New("buildspec: asset path is required")
	case s.HandlerPkg == "":
		return errors.New("buildspec: handler package is required")
	}
	return nil
}

// Render returns the buildspec.yml the build project runs on each push:
// build the handler into the asset directory, then cdk deploy the API stack.
func Render(s Spec) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	cdk := "aws-cdk@2"
	if s.CDKVersion != "" {
		cdk = "aws-cdk@" + s.CDKVersion
	}

	var d document
	d.Version = "0.2"
	d.Env.Variables = map[string]string{
		"CGO_ENABLED": "0",
	}
	d.Phases.Install.Commands = []string{
		"npm install -g " + cdk,
		"go mod download",
	}
	d.Phases.Build.Commands = []string{
		"go test ./...",
		fmt.Sprintf("GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -o %s/bootstrap %s", filepath.ToSlash(s.AssetPath), s.HandlerPkg),
		fmt.Sprintf("cdk deploy %s --require-approval never", s.AppStackName),
	}
	d.Artifacts.BaseDirectory = "cdk.out"
	d.Artifacts.Files = []string{"**/*"}

	return yaml.Marshal(&d)
}

// Write renders the buildspec to path, replacing any previous file atomically.
func Write(path string, s Spec) error {
	b, err := Render(s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
