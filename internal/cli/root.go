package cli

import (
	"context"
	"os"

	"github.com/matzehuels/benchdraw/pkg/buildinfo"
)

// SetVersion overrides the build information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	buildinfo.Version = v
	buildinfo.Commit = c
	buildinfo.Date = d
}

// Execute runs the benchdraw CLI and returns an error if any command fails.
//
// Logging goes to stderr at info level, or debug level with --verbose.
// The logger is attached to the command context and available to every
// command via loggerFromContext.
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
