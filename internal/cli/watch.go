package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/render/sketch"
)

// watchDebounce coalesces the burst of events editors emit per save.
const watchDebounce = 100 * time.Millisecond

// watchCommand regenerates outputs whenever the diagram file changes.
func (c *CLI) watchCommand() *cobra.Command {
	var output string
	var preview bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the document whenever the diagram file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.config().Store.Backend != backendFile {
				return errors.New(errors.ErrCodeUnsupported, "watch requires the file store")
			}

			path, err := filepath.Abs(c.diagramPath())
			if err != nil {
				return err
			}
			if output == "" {
				output = siblingPath(path, ".tex")
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			var sink diagram.RenderSink
			if preview {
				sink = &sketch.Sink{Path: siblingPath(path, ".sketch.png")}
			}

			rebuild := func() error {
				d, err := diagram.Load(path)
				if err != nil {
					return err
				}
				doc, err := runner.Generate(ctx, d)
				if err != nil {
					return err
				}
				if err := compiler.WriteArtifact(output, []byte(doc)); err != nil {
					return err
				}
				if sink != nil {
					if err := sink.Render(d.Snapshot(), diagram.NoSelection); err != nil {
						return err
					}
				}
				printSuccess("Regenerated %s (%d components)", filepath.Base(output), d.Len())
				return nil
			}

			if err := rebuild(); err != nil {
				return fmt.Errorf("initial build failed: %w", err)
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			// Watch the directory: editors often replace files on save.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
			}

			printInfo("Watching %s (Ctrl+C to stop)", StyleValue.Render(c.diagramPath()))
			return watchLoop(ctx, watcher, path, watchDebounce, rebuild, c.Logger)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .tex file (default: next to the diagram)")
	cmd.Flags().BoolVar(&preview, "preview", false, "also write a sketch PNG preview")

	return cmd
}

// watchLoop calls rebuild after writes to target settle, until ctx is
// done. Rebuild errors are logged; they do not stop watching.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, target string, debounce time.Duration, rebuild func() error, logger *log.Logger) error {
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			logger.Debug("diagram changed", "file", target)
			if err := rebuild(); err != nil {
				logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
