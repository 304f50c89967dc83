package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/davarch/lambda-api-ci/internal/domain"
)

type FSCache struct {
	path string
}

func New(path string) *FSCache { return &FSCache{path: path} }

func (c *FSCache) Write(_ context.Context, s domain.Snapshot) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	type out struct {
		Pipeline  string `json:"pipeline"`
		Execution string `json:"execution_id"`
		Status    string `json:"status"`
		Revision  string `json:"revision,omitempty"`
		Started   string `json:"started,omitempty"`
		URL       string `json:"url"`
		Retrieved int64  `json:"retrieved"`
	}

	o := out{
		Pipeline:  s.Pipeline.Name,
		Execution: s.Execution.ID,
		Status:    string(s.Execution.Status),
		Revision:  s.Execution.Revision,
		URL:       s.Execution.URL,
		Retrieved: s.Retrieved,
	}
	if !s.Execution.Started.IsZero() {
		o.Started = s.Execution.Started.UTC().Format(time.RFC3339)
	}

	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, c.path)
}
