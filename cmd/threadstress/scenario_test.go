package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenarioDefaults(t *testing.T) {
	sc, err := LoadScenario("")
	require.NoError(t, err)
	assert.Equal(t, 32, sc.Soak.Threads)
	assert.Equal(t, 2000, sc.Soak.Increments)
	assert.Zero(t, sc.Limit)
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: 8\nsoak:\n  threads: 4\n  increments: 10\n"), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, 8, sc.Limit)
	assert.Equal(t, 4, sc.Soak.Threads)
	assert.Equal(t, 10, sc.Soak.Increments)
	assert.Equal(t, 4, sc.TryLock.Probes, "untouched sections keep built-in values")
}

func TestLoadScenarioRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("soak:\n  threads: -1\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soak.threads")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
