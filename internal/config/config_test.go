package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/structwsf/resultset"
)

const sampleYAML = `
prefixes:
  - prefix: ex
    namespace: http://ex.org/vocab#
linked:
  json_endpoint: http://converter.local/json
  schema: http://ex.org/schema.json
  timeout: 5s
  cache: true
store:
  path: /var/lib/structwsf
server:
  addr: ":9090"
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "structwsf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Store.Path)
	assert.Nil(t, cfg.Transformer(nil), "no endpoint, no transformer")
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/structwsf", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Linked.Timeout)
	assert.True(t, cfg.Linked.Cache)
	assert.Equal(t, map[resultset.Format]string{
		resultset.FormatIronJSON: "http://converter.local/json",
	}, cfg.Endpoints())
	assert.NotNil(t, cfg.Transformer(nil))

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, "ex:Book", reg.Compact("http://ex.org/vocab#Book"))
	assert.Equal(t, "foaf:Person", reg.Compact(resultset.NSFOAF+"Person"), "core prefixes stay")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STRUCTWSF_SERVER_ADDR", ":7070")
	t.Setenv("STRUCTWSF_LINKED_CSV_ENDPOINT", "http://converter.local/csv")
	t.Setenv("STRUCTWSF_LINKED_TIMEOUT", "1m")
	t.Setenv("STRUCTWSF_LINKED_CACHE", "false")
	t.Setenv("STRUCTWSF_DEBUG", "true")
	t.Setenv("STRUCTWSF_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Linked.Timeout)
	assert.False(t, cfg.Linked.Cache)
	assert.Equal(t, "debug", cfg.Log.Level, "STRUCTWSF_DEBUG wins over the level")
	assert.Len(t, cfg.Endpoints(), 2)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "prefixes: [\n"},
		{name: "relative namespace", content: "prefixes:\n  - prefix: ex\n    namespace: vocab#\n"},
		{name: "empty prefix", content: "prefixes:\n  - namespace: http://ex.org/\n"},
		{name: "unknown level", content: "log:\n  level: chatty\n"},
		{name: "negative timeout", content: "linked:\n  timeout: -1s\n"},
		{name: "empty addr", content: "server:\n  addr: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("STRUCTWSF_LINKED_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestRegistryConflict(t *testing.T) {
	cfg := Default()
	cfg.Prefixes = []PrefixConfig{{Prefix: "foaf", Namespace: "http://ex.org/not-foaf#"}}
	_, err := cfg.Registry()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STRUCTWSF_STORE_PATH=/tmp/records\n"), 0o600))
	t.Setenv("STRUCTWSF_STORE_PATH", "")
	require.NoError(t, os.Unsetenv("STRUCTWSF_STORE_PATH"))

	LoadEnv(path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/records", cfg.Store.Path)
	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}
