package config

import (
	"errors"
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(t *testing.T, files map[string]string) hackpadfs.FS {
	t.Helper()
	fs, err := mem.NewFS()
	require.NoError(t, err)
	for path, content := range files {
		require.NoError(t, hackpadfs.WriteFullFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.8, cfg.Gate.PassingScore)
	assert.Equal(t, 30, cfg.Pipeline.ReportMinTotal)
	assert.Equal(t, 4096, cfg.Parser.MaxTrees)
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := memFS(t, map[string]string{
		"tokitag.yaml": `
parser:
  timeout: 500ms
gate:
  scorer: pass_fail
pipeline:
  workers: 8
store:
  driver: memory
`,
	})

	cfg, err := Load(fs, "tokitag.yaml")
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Parser.Timeout)
	assert.Equal(t, 4096, cfg.Parser.MaxTrees, "Unset keys keep defaults")
	assert.Equal(t, "pass_fail", cfg.Gate.Scorer)
	assert.Equal(t, 0.8, cfg.Gate.PassingScore)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestLoadErrors(t *testing.T) {
	fs := memFS(t, map[string]string{
		"unknown.yaml": "parser:\n  max_tress: 3\n",
		"invalid.yaml": "pipeline:\n  workers: 0\n",
		"scorer.yaml":  "gate:\n  scorer: voting\n",
	})

	_, err := Load(fs, "missing.yaml")
	assert.Error(t, err)

	_, err = Load(fs, "unknown.yaml")
	assert.Error(t, err, "Unknown keys are rejected")

	_, err = Load(fs, "invalid.yaml")
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = Load(fs, "scorer.yaml")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max trees", func(c *Config) { c.Parser.MaxTrees = 0 }},
		{"negative timeout", func(c *Config) { c.Parser.Timeout = -time.Second }},
		{"passing score above one", func(c *Config) { c.Gate.PassingScore = 1.5 }},
		{"negative report minimum", func(c *Config) { c.Pipeline.ReportMinTotal = -1 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }},
		{"zero top trees", func(c *Config) { c.Server.TopTrees = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
