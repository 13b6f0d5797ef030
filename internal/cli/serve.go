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

	"github.com/matzehuels/phyloscope/pkg/layout"
	"github.com/matzehuels/phyloscope/pkg/pipeline"
	"github.com/matzehuels/phyloscope/pkg/tree"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	noCache bool   // disable the layout cache
}

// serveCommand creates the serve command, exposing the layout pipeline over
// a small HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: c.Config.Serve.Addr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Run an HTTP server exposing the layout pipeline.

Endpoints:
  POST /api/layout   {"newick": "...", "width": 1024, ...} -> payload JSON
  GET  /healthz      liveness check

Example:
  phyloscope serve --addr :8432
  curl -s localhost:8432/api/layout -d '{"newick":"((a:1,b:2):1,c:3);"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/api/layout", c.handleLayout(runner))

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleLayout runs the pipeline for a JSON options body and responds with
// the payload JSON.
func (c *CLI) handleLayout(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := loggerFromContext(req.Context())

		var opts pipeline.Options
		if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		if opts.Newick == "" {
			writeError(w, http.StatusBadRequest, errors.New("newick source is required"))
			return
		}
		opts.Logger = logger

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			logger.Warn("layout request failed", "err", err)
			writeError(w, statusFor(err), err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result.Payload)
	}
}

// statusFor maps pipeline errors to HTTP status codes. Input problems are
// the client's fault; everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tree.ErrInvalidNewick),
		errors.Is(err, tree.ErrTooFewNodes),
		errors.Is(err, layout.ErrNoHorizontalSpan):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with a JSON error body.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
