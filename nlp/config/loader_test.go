package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/coref/nlp/coref"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, coref.DefaultSieveOrder, cfg.Pipeline.Sieves)
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "coref.yaml", `
pipeline:
  sieves: [relaxed-string, pronoun]
  pronoun_window: 0
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"relaxed-string", "pronoun"}, cfg.Pipeline.Sieves)
	assert.Equal(t, 0, cfg.Pipeline.PronounWindow)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"that", "there"}, cfg.Pipeline.Stoplist)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COREF_SIEVES", "pronoun, exact-string")
	t.Setenv("COREF_LOG_LEVEL", "warn")
	t.Setenv("COREF_ADDR", "127.0.0.1:9000")
	t.Setenv("COREF_WORKERS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"pronoun", "exact-string"}, cfg.Pipeline.Sieves)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 4, cfg.Pipeline.Workers)

	t.Setenv("COREF_WORKERS", "many")
	_, err = Load("")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown sieve", func(c *Config) { c.Pipeline.Sieves = append(c.Pipeline.Sieves, "fuzzy") }},
		{"negative window", func(c *Config) { c.Pipeline.PronounWindow = -1 }},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -2 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"server limits", func(c *Config) { c.Server.Burst = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "coref.yaml", "pipeline: [\n")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeFile(t, t.TempDir(), "coref.yaml", "pipeline:\n  sieves: [bogus]\n")
	_, err = Load(path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSieves(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Pipeline.Sieves = []string{"relaxed-string"}
	cfg.Pipeline.StoplistFile = writeFile(t, dir, "stop.txt", "# extra generic heads\nhere\n")

	opts, err := cfg.SieveOptions()
	require.NoError(t, err)
	assert.True(t, opts.Stoplist.Contains("HERE"))
	assert.True(t, opts.Stoplist.Contains("there"))

	sieves, err := cfg.Sieves()
	require.NoError(t, err)
	ms := []*coref.Mention{
		{Index: 0, Head: "here", Type: coref.Entity},
		{Index: 1, Head: "Here", Type: coref.Entity},
	}
	res, err := coref.NewPipeline(sieves).Resolve(context.Background(), ms)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())

	cfg.Pipeline.StoplistFile = filepath.Join(dir, "missing.txt")
	_, err = cfg.Sieves()
	assert.Error(t, err)
}

func TestJSONStoplistFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Pipeline.Stoplist = nil
	cfg.Pipeline.StoplistFile = writeFile(t, dir, "stop.json", `["Here", "these"]`)

	opts, err := cfg.SieveOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"here", "these"}, opts.Stoplist.Words())

	cfg.Pipeline.StoplistFile = writeFile(t, dir, "bad.json", `{"words": "here"}`)
	_, err = cfg.SieveOptions()
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "coref.yaml", "log:\n  level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { reloaded <- c })
	}()

	var got *Config
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
			return false
		}
		select {
		case got = <-reloaded:
			return true
		case <-time.After(500 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)
	assert.Equal(t, "debug", got.Log.Level)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
