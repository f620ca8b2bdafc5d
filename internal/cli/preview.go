package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	caperrors "github.com/lumenwell/capreport/pkg/errors"
	capio "github.com/lumenwell/capreport/pkg/io"
	"github.com/lumenwell/capreport/pkg/pipeline"
	"github.com/lumenwell/capreport/pkg/report"
)

// newPreviewCmd creates the preview command: a local HTTP server that
// renders request files on demand so documents can be inspected in a
// browser before export.
func newPreviewCmd(cfg Config) *cobra.Command {
	var (
		addr        string
		interactive bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "preview [request.json]",
		Short: "Serve rendered documents over HTTP for inspection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestPath := ""
			if len(args) == 1 {
				requestPath = args[0]
			}
			if requestPath == "" && interactive {
				picked, err := pickRequestFile()
				if err != nil {
					return err
				}
				requestPath = picked
			}

			if addr == "" {
				addr = cfg.Preview.Addr
			}
			return runPreview(cmd, cfg, addr, requestPath, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8321)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a request file interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func runPreview(cmd *cobra.Command, cfg Config, addr, requestPath string, noCache bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := newRunner(ctx, cfg, noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &previewServer{
		runner:      runner,
		requestPath: requestPath,
		cfg:         cfg,
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Preview server listening on http://%s", addr)
	if requestPath != "" {
		printDetail("Serving %s at /", requestPath)
	} else {
		printDetail("Serving the reference document at /")
	}
	printDetail("POST /render accepts pipeline options as JSON")

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// previewServer renders documents per request. Rendering goes through the
// shared pipeline Runner, so the preview benefits from the same cache as
// the generate command.
type previewServer struct {
	runner      *pipeline.Runner
	requestPath string
	cfg         Config
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/reference", s.handleReference)
	r.Post("/render", s.handleRender)

	return r
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleIndex renders the configured request file, or the reference
// document when the server was started without one. The file is re-read on
// every request so edits show up on reload.
func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.requestPath == "" {
		s.handleReference(w, r)
		return
	}

	in, err := capio.ImportJSON(s.requestPath)
	if err != nil {
		writeHTTPError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Variant:     string(in.Variant),
		Scale:       string(in.Scale),
		Protocol:    in.Protocol,
		WindowStart: in.WindowStart,
		WindowEnd:   in.WindowEnd,
		Subjects:    in.Subjects,
		Formats:     []string{pipeline.FormatHTML},
	})
	if err != nil {
		writeHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(result.Document))
}

func (s *previewServer) handleReference(w http.ResponseWriter, r *http.Request) {
	doc, err := report.Reference()
	if err != nil {
		writeHTTPError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// handleRender accepts pipeline options as JSON and responds with the
// rendered HTML document.
func (s *previewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"decode request: %v"}`, err), http.StatusBadRequest)
		return
	}
	opts.Formats = []string{pipeline.FormatHTML}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(result.Document))
}

// writeHTTPError maps engine error codes to HTTP statuses.
func writeHTTPError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch caperrors.GetCode(err) {
	case caperrors.ErrCodeInvalidInput, caperrors.ErrCodeInvalidScale,
		caperrors.ErrCodeInvalidVariant, caperrors.ErrCodeInvalidFormat,
		caperrors.ErrCodeInvalidSubject, caperrors.ErrCodeInsufficientData,
		caperrors.ErrCodeEmptyCohort:
		status = http.StatusBadRequest
	case caperrors.ErrCodeNotFound, caperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": caperrors.UserMessage(err),
		"code":  string(caperrors.GetCode(err)),
	})
}
