// Package bridge serves the action catalog to a block-based coding host and
// forwards invocations to the robot.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/gwillem/robobug/pkg/robot"
)

// Invoker runs catalog actions. *robot.Client implements it.
type Invoker interface {
	Invoke(ctx context.Context, name robot.ActionName, args map[string]any) (robot.Result, error)
}

// InvokeResponse is returned for every resolved invocation.
type InvokeResponse struct {
	Action robot.ActionName `json:"action"`
	Kind   robot.Kind       `json:"kind"`
	Value  *string          `json:"value,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Options configures the handler.
type Options struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer // serves /metrics when set
}

type server struct {
	invoker Invoker
	logger  *slog.Logger
}

// NewHandler creates the HTTP handler for the bridge API.
func NewHandler(inv Invoker, opts Options) http.Handler {
	s := &server{invoker: inv, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	r.Get("/catalog", s.catalog)
	r.Get("/actions/{name}", s.invoke)
	r.Post("/actions/{name}", s.invoke)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("bridge request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}

func (s *server) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, robot.NewManifest(), s.logger)
}

func (s *server) invoke(w http.ResponseWriter, r *http.Request) {
	name := robot.ActionName(chi.URLParam(r, "name"))
	a, ok := robot.Lookup(name)
	if !ok {
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}

	args, err := readArgs(r)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.invoker.Invoke(r.Context(), name, args)
	if errors.Is(err, robot.ErrUnknownAction) {
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}

	resp := InvokeResponse{Action: a.Name, Kind: a.Kind}
	if res.HasValue {
		v := res.Value
		resp.Value = &v
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// readArgs takes arguments from a JSON object body on POST and from the
// query string otherwise.
func readArgs(r *http.Request) (map[string]any, error) {
	args := make(map[string]any)
	if r.Method == http.MethodPost {
		err := json.NewDecoder(r.Body).Decode(&args)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return args, nil
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}
	return args, nil
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "error", err)
	}
}
