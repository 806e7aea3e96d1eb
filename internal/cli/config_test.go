package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "xelatex", cfg.Engine)
	assert.Equal(t, 2*time.Minute, cfg.CompileTimeout)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, backendFile, cfg.Cache.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, backendFile, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
engine: lualatex
compile_timeout: 30s
cache:
  backend: redis
  redis_addr: cache:6379
store:
  backend: mongo
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "benchdraw.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "lualatex", cfg.Engine)
	assert.Equal(t, 30*time.Second, cfg.CompileTimeout)
	assert.Equal(t, backendRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, backendMongo, cfg.Store.Backend)
	assert.Equal(t, "benchdraw.yaml", cfg.File)
	assert.Equal(t, 150, cfg.DPI, "unset keys keep defaults")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine: lualatex\ndpi: 200\n"), 0o644))

	t.Setenv("BENCHDRAW_ENGINE", "pdflatex")
	t.Setenv("BENCHDRAW_DPI", "300")
	t.Setenv("BENCHDRAW_STORE_MONGO_URI", "mongodb://db:27017")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("engine", "", "")
	flags.Int("dpi", 0, "")
	flags.String("file", "diagram.json", "")
	require.NoError(t, flags.Parse([]string{"--engine", "xelatex"}))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "xelatex", cfg.Engine, "flag beats env and file")
	assert.Equal(t, 300, cfg.DPI, "env beats file; unset flag is ignored")
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.Equal(t, cfgPath, cfg.File)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"cache backend", "cache:\n  backend: memcached\n", "unknown cache backend"},
		{"store backend", "store:\n  backend: sqlite\n", "unknown store backend"},
		{"dpi", "dpi: -1\n", "dpi must be positive"},
		{"engine", "engine: \"\"\n", "engine must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			require.NoError(t, os.WriteFile("benchdraw.yaml", []byte(tt.content), 0o644))

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BENCHDRAW_ENGINE", "engine"},
		{"BENCHDRAW_COMPILE_TIMEOUT", "compile_timeout"},
		{"BENCHDRAW_CACHE_BACKEND", "cache.backend"},
		{"BENCHDRAW_CACHE_REDIS_ADDR", "cache.redis_addr"},
		{"BENCHDRAW_STORE_MONGO_DATABASE", "store.mongo_database"},
		{"BENCHDRAW_SERVE_ADDR", "serve.addr"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envKey(tt.in), tt.in)
	}
}
