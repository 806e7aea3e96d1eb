package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/observability"
	"github.com/matzehuels/benchdraw/pkg/pipeline"
	"github.com/matzehuels/benchdraw/pkg/render/sketch"
	"github.com/matzehuels/benchdraw/pkg/render/topology"
)

// maxBodyBytes bounds request bodies (diagrams and documents).
const maxBodyBytes = 1 << 20

// serveCommand runs the HTTP shell.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve catalog, generate, parse and export over HTTP",
		Long: `Start an HTTP server exposing the catalog and the document pipeline:

  GET  /catalog           archetypes by category (JSON)
  POST /generate          diagram JSON -> LaTeX document
  POST /parse             LaTeX document -> diagram JSON
  POST /export            diagram JSON -> PDF or PNG (?format=png&dpi=300)
  POST /render/topology   diagram JSON -> SVG
  POST /render/sketch     diagram JSON -> PNG

Every request works on its own diagram; nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(&logHooks{logger: c.Logger})
			return serve(ctx, c.config().Serve.Addr, newServer(runner, c.Logger), c.Logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("cache-backend", "", "artifact cache: file, redis or none")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis cache")

	return cmd
}

// serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// =============================================================================
// Handlers
// =============================================================================

type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// newServer builds the HTTP router. The catalog is shared read-only; each
// request decodes its own diagram.
func newServer(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	s := &server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		hooksMiddleware,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/catalog", s.handleCatalog)
	r.Post("/generate", s.handleGenerate)
	r.Post("/parse", s.handleParse)
	r.Post("/export", s.handleExport)
	r.Route("/render", func(r chi.Router) {
		r.Post("/topology", s.handleTopology)
		r.Post("/sketch", s.handleSketch)
	})

	return r
}

// hooksMiddleware reports requests to the observability HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

type catalogCategory struct {
	Name       string             `json:"name"`
	Archetypes []catalogArchetype `json:"archetypes"`
}

type catalogArchetype struct {
	Name     string         `json:"name"`
	Markup   string         `json:"latex"`
	Defaults catalog.Params `json:"defaults"`
	Setup    bool           `json:"setup,omitempty"`
}

func (s *server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	cats := s.runner.Catalog.Categories()
	out := make([]catalogCategory, len(cats))
	for i, cg := range cats {
		out[i] = catalogCategory{Name: cg.Name, Archetypes: make([]catalogArchetype, len(cg.Archetypes))}
		for j, a := range cg.Archetypes {
			out[i].Archetypes[j] = catalogArchetype{
				Name:     a.Name,
				Markup:   a.Markup,
				Defaults: a.Defaults,
				Setup:    a.IsSetup(),
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	d, err := readDiagram(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.runner.Generate(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
	io.WriteString(w, doc)
}

func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	d := diagram.New(r.URL.Query().Get("name"))
	if _, err := s.runner.Apply(r.Context(), d, string(body)); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := diagram.WriteJSON(d, w); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	d, err := readDiagram(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{Format: r.URL.Query().Get("format")}
	if v := r.URL.Query().Get("dpi"); v != "" {
		if opts.DPI, err = strconv.Atoi(v); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "dpi"))
			return
		}
	}

	res, err := s.runner.ExportDiagram(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	contentType := "application/pdf"
	if res.Format == pipeline.FormatPNG {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", strconv.FormatBool(res.CacheHit))
	w.Write(res.Artifact)
}

func (s *server) handleTopology(w http.ResponseWriter, r *http.Request) {
	d, err := readDiagram(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	svg, err := topology.RenderSVG(r.Context(), topology.ToDOT(d, topology.Options{Detailed: detailed}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *server) handleSketch(w http.ResponseWriter, r *http.Request) {
	d, err := readDiagram(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	png, err := sketch.RenderPNG(d, sketch.Options{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func readDiagram(w http.ResponseWriter, r *http.Request) (*diagram.Diagram, error) {
	return diagram.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeParseFailure, errors.ErrCodeMissingParam, errors.ErrCodeSetupPartial:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeArchetypeNotFound, errors.ErrCodeSetupNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCompilerFailure:
		return http.StatusBadGateway
	case errors.ErrCodeCompilerMissing, errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(errors.GetCode(err)), Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
