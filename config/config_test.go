package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDocstoreURL, "")
	t.Setenv(EnvDocstoreToken, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultJourneysURL, cfg.Journeys.BaseURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvDocstoreURL, "")
	t.Setenv(EnvDocstoreToken, "")

	path := writeConfig(t, `
journeys:
  timeout: 5s
  cache_file: /tmp/journeys.json
docstore:
  url: https://tresjolie.example.com
  token: abc
  rate_per_second: 2.5
database:
  driver: postgres
  dsn: postgres://localhost/tresjolie
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultJourneysURL, cfg.Journeys.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Journeys.Timeout)
	assert.Equal(t, "/tmp/journeys.json", cfg.Journeys.CacheFile)
	assert.Equal(t, "https://tresjolie.example.com", cfg.Docstore.URL)
	assert.Equal(t, "abc", cfg.Docstore.Token)
	assert.Equal(t, 2.5, cfg.Docstore.RatePerSecond)
	assert.Equal(t, DefaultBurst, cfg.Docstore.Burst)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/tresjolie", cfg.Database.DSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDocstoreURL, "https://env.example.com")
	t.Setenv(EnvDocstoreToken, "from-env")

	path := writeConfig(t, `
docstore:
  url: https://file.example.com
  token: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Docstore.URL)
	assert.Equal(t, "from-env", cfg.Docstore.Token)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(EnvDocstoreURL, "")
	t.Setenv(EnvDocstoreToken, "")

	for _, tc := range []struct {
		name    string
		content string
	}{
		{"bad driver", "database:\n  driver: mysql\n"},
		{"postgres without dsn", "database:\n  driver: postgres\n"},
		{"bad journeys url", "journeys:\n  base_url: not a url\n"},
		{"zero rate", "docstore:\n  rate_per_second: 0\n"},
		{"malformed yaml", "journeys: [\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
