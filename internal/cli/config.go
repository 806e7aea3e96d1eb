package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/pipeline"
)

// envPrefix is the prefix for environment overrides, e.g.
// BENCHDRAW_CACHE_BACKEND=redis.
const envPrefix = "BENCHDRAW_"

// Backend names accepted in configuration.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
	backendMongo = "mongo"
)

// Config is the resolved benchdraw configuration.
type Config struct {
	Engine         string        `koanf:"engine"`
	CompileTimeout time.Duration `koanf:"compile_timeout"`
	DPI            int           `koanf:"dpi"`
	Catalog        string        `koanf:"catalog"` // TOML catalog extension
	Cache          CacheConfig   `koanf:"cache"`
	Store          StoreConfig   `koanf:"store"`
	Serve          ServeConfig   `koanf:"serve"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string        `koanf:"backend"`
	Dir       string        `koanf:"dir"`
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
}

// StoreConfig selects where diagrams are loaded from and saved to.
type StoreConfig struct {
	Backend       string `koanf:"backend"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`
}

// ServeConfig configures the HTTP shell.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

func defaultConfig() map[string]any {
	return map[string]any{
		"engine":               compiler.DefaultEngine,
		"compile_timeout":      compiler.DefaultTimeout.String(),
		"dpi":                  compiler.DefaultDPI,
		"catalog":              "",
		"cache.backend":        backendFile,
		"cache.dir":            "",
		"cache.redis_addr":     "localhost:6379",
		"cache.ttl":            pipeline.TTLArtifact.String(),
		"store.backend":        backendFile,
		"store.mongo_uri":      "mongodb://localhost:27017",
		"store.mongo_database": "benchdraw",
		"serve.addr":           ":8080",
	}
}

// flagKeys maps flag names to config keys. Flags not listed here are
// command options, not configuration.
var flagKeys = map[string]string{
	"engine":        "engine",
	"timeout":       "compile_timeout",
	"dpi":           "dpi",
	"catalog":       "catalog",
	"cache-backend": "cache.backend",
	"cache-dir":     "cache.dir",
	"redis-addr":    "cache.redis_addr",
	"store-backend": "store.backend",
	"mongo-uri":     "store.mongo_uri",
	"addr":          "serve.addr",
}

// envSections are the nested config sections addressable from the
// environment: BENCHDRAW_STORE_MONGO_URI -> store.mongo_uri.
var envSections = []string{"cache", "store", "serve"}

// envKey transforms an environment variable name into a config key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// findConfigFile returns the explicit path, or benchdraw.yaml/.yml in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"benchdraw.yaml", "benchdraw.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from defaults, the config file,
// BENCHDRAW_* environment variables and explicitly set flags, in
// increasing order of precedence.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", used, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags that were set on the command line
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend names and numeric ranges.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.CompileTimeout <= 0 {
		return fmt.Errorf("compile_timeout must be positive, got %s", c.CompileTimeout)
	}
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case backendFile, backendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (must be one of: file, mongo)", c.Store.Backend)
	}
	return nil
}
