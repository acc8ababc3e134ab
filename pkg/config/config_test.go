package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "trigdict.db", cfg.Database.Path)
	assert.True(t, cfg.Database.Community)
	assert.Equal(t, 7, cfg.Seed.Seasons)
	assert.Equal(t, DefaultSpeakers, cfg.Seed.Speakers)
	assert.False(t, cfg.Migrate.DedupeSentences)
	assert.Equal(t, 30*time.Second, cfg.Sources.Timeout)
}

func TestConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trigdict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/dict.db
  community: false
migrate:
  batch_size: 50
  dedupe_sentences: true
seed:
  speakers: [Clarke, Lexa]
sources:
  timeout: 5s
`), 0o644))
	t.Setenv("TRIGDICT_SEED_SEASONS", "3")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dict.db", cfg.Database.Path)
	assert.False(t, cfg.Database.Community)
	assert.Equal(t, 50, cfg.Migrate.BatchSize)
	assert.True(t, cfg.Migrate.DedupeSentences)
	assert.Equal(t, 3, cfg.Seed.Seasons)
	assert.Equal(t, []string{"Clarke", "Lexa"}, cfg.Seed.Speakers)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set("migrate.batch_size", 0)
	v.Set("seed.seasons", 0)
	_, err := Load(v, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate.batch_size")
	assert.Contains(t, err.Error(), "seed.seasons")

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
