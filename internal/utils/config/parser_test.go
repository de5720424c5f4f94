package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseValidConfig(t *testing.T) {
	path := writeConfig(t, `
job:
  name: extract-events
  namespace: smart_bidding
dataset:
  root_dir: .db
  name: raw_dataset
dictionary:
  dir: data/dictionaries
storage:
  bucket: my-bucket
  region: eu-west-1
`)

	cfg, err := NewParser().Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "extract-events", cfg.Job.Name)
	assert.Equal(t, "smart_bidding", cfg.Job.Namespace)
	assert.Equal(t, ".db", cfg.Dataset.RootDir)
	assert.Equal(t, "raw_dataset", cfg.Dataset.Name)
	assert.Equal(t, "data/dictionaries", cfg.Dictionary.Dir)
	assert.Equal(t, "my-bucket", cfg.Storage.Bucket)
}

func TestParseMissingFile(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestParseRejectsIncompleteConfig(t *testing.T) {
	path := writeConfig(t, `
job:
  name: extract-events
`)
	_, err := NewParser().Parse(path)
	require.ErrorContains(t, err, "invalid configuration")
}
