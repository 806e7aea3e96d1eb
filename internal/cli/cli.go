// Package cli implements the benchdraw command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/buildinfo"
	"github.com/matzehuels/benchdraw/pkg/cache"
	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/observability"
	"github.com/matzehuels/benchdraw/pkg/pipeline"
	"github.com/matzehuels/benchdraw/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "benchdraw"

	// defaultDiagramFile is the diagram edited when --file is not given.
	defaultDiagramFile = "diagram.json"

	// storeTimeout bounds remote store round trips.
	storeTimeout = 10 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	out        io.Writer
	configFile string
	diagram    string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "benchdraw turns optical bench diagrams into pst-optexp LaTeX",
		Long: `benchdraw assembles optical bench diagrams from a catalog of components
and generates pst-optexp LaTeX documents from them. Generated documents can be
edited by hand and applied back to the diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)

			cfg, err := LoadConfig(c.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}

			observability.SetPipelineHooks(&logHooks{logger: c.Logger})
			observability.SetCacheHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configFile, "config", "", "config file (default: benchdraw.yaml in the working directory)")
	pf.StringVarP(&c.diagram, "file", "f", defaultDiagramFile, "diagram file or store key")
	pf.String("catalog", "", "TOML file with extra catalog categories")
	pf.String("store-backend", "", "diagram store: file or mongo")
	pf.String("mongo-uri", "", "MongoDB connection URI")

	// Register all subcommands
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, or defaults when commands run
// without the root pre-run (as in tests).
func (c *CLI) config() *Config {
	if c.Config == nil {
		cfg, err := LoadConfig("", nil)
		if err != nil {
			cfg = &Config{}
		}
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// loadCatalog returns the default catalog, extended by the configured TOML
// file if any.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	path := c.config().Catalog
	if path == "" {
		return catalog.Default(), nil
	}
	extra, err := catalog.LoadTOMLFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("extended catalog", "file", path, "categories", len(extra))
	return catalog.Extend(catalog.Default(), extra...)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	tex := &compiler.TeX{Engine: cfg.Engine, Timeout: cfg.CompileTimeout}
	r := pipeline.NewRunner(cat, tex, ch, c.Logger)
	if cfg.Cache.TTL > 0 {
		r.TTL = cfg.Cache.TTL
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config().Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == backendRedis {
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// diagramStore is a diagram.Store that may hold a connection.
type diagramStore interface {
	diagram.Store
	Close(ctx context.Context) error
}

type fileStore struct{ diagram.FileStore }

func (fileStore) Close(context.Context) error { return nil }

func (c *CLI) newStore(ctx context.Context) (diagramStore, error) {
	cfg := c.config().Store
	if cfg.Backend == backendMongo {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		return store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return fileStore{}, nil
}

// loadDiagram reads the diagram named by --file.
func (c *CLI) loadDiagram(ctx context.Context) (*diagram.Diagram, error) {
	s, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close(ctx)
	return s.Load(ctx, c.diagramPath())
}

// saveDiagram writes d back to --file.
func (c *CLI) saveDiagram(ctx context.Context, d *diagram.Diagram) error {
	s, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)
	return s.Save(ctx, d, c.diagramPath())
}

// editDiagram loads the diagram, applies fn and saves the result.
func (c *CLI) editDiagram(ctx context.Context, fn func(d *diagram.Diagram) error) (*diagram.Diagram, error) {
	d, err := c.loadDiagram(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := c.saveDiagram(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *CLI) diagramPath() string {
	if c.diagram == "" {
		return defaultDiagramFile
	}
	return c.diagram
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/benchdraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// siblingPath replaces the extension of path with ext.
func siblingPath(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
