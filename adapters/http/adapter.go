// Package http exposes the validate-and-fix engine over a small JSON API.
// Handlers only decode, delegate to the engine and encode.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pricing-guard/adapters/pricetable"
	"pricing-guard/core/engine"
	"pricing-guard/core/fixer"
	"pricing-guard/core/output"
	"pricing-guard/core/types"
	"pricing-guard/internal/config"
	"pricing-guard/internal/errors"
)

// Config holds HTTP adapter configuration
type Config struct {
	// Address to listen on
	Address string `json:"address"`

	// ReadTimeout for requests
	ReadTimeout time.Duration `json:"read_timeout"`

	// WriteTimeout for responses
	WriteTimeout time.Duration `json:"write_timeout"`

	// MaxBodySize limits request body size
	MaxBodySize int64 `json:"max_body_size"`

	// EnableCORS enables CORS headers
	EnableCORS bool `json:"enable_cors"`

	// AllowedOrigins for CORS
	AllowedOrigins []string `json:"allowed_origins"`

	// EnableMetrics enables the plain-text metrics endpoint
	EnableMetrics bool `json:"enable_metrics"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Address:        ":8080",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxBodySize:    1 << 20, // price tables are small
		EnableCORS:     false,
		AllowedOrigins: []string{"*"},
		EnableMetrics:  true,
	}
}

// Adapter is the HTTP adapter
type Adapter struct {
	settings *config.Config
	config   *Config
	logger   *zap.Logger

	serverOnce sync.Once
	server     *http.Server

	// Metrics
	mu             sync.Mutex
	requestCount   int64
	errorCount     int64
	fixCount       int64
	unconverged    int64
	totalLatencyMs int64
}

// New creates a new HTTP adapter. settings supplies the engine and output
// defaults that individual requests may override.
func New(settings *config.Config, cfg *Config, logger *zap.Logger) *Adapter {
	if settings == nil {
		settings = config.Default()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{settings: settings, config: cfg, logger: logger}
}

// Router returns the HTTP handler
func (a *Adapter) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.metricsMiddleware)
	r.Use(a.loggingMiddleware)
	r.Use(a.recoveryMiddleware)
	if a.config.EnableCORS {
		r.Use(a.corsMiddleware)
	}

	// Health endpoints
	r.Get("/health", a.handleHealth)
	r.Get("/ready", a.handleReady)

	// API v1 endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", a.handleValidate)
		r.Post("/fix", a.handleFix)
		r.Get("/sample", a.handleSample)
	})

	if a.config.EnableMetrics {
		r.Get("/metrics", a.handleMetrics)
	}
	return r
}

// Start starts the HTTP server and blocks until it stops
func (a *Adapter) Start() error {
	a.logger.Info("listening", zap.String("address", a.config.Address))
	return a.httpServer().ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *Adapter) Shutdown(ctx context.Context) error {
	return a.httpServer().Shutdown(ctx)
}

func (a *Adapter) httpServer() *http.Server {
	a.serverOnce.Do(func() {
		a.server = &http.Server{
			Addr:         a.config.Address,
			Handler:      a.Router(),
			ReadTimeout:  a.config.ReadTimeout,
			WriteTimeout: a.config.WriteTimeout,
		}
	})
	return a.server
}

// Request is the body of /api/v1/validate and /api/v1/fix
type Request struct {
	// Prices is the flat key -> price table
	Prices map[string]json.Number `json:"prices"`

	// MaxIterations overrides the iteration cap
	MaxIterations *int `json:"max_iterations,omitempty"`

	// TauOutlier overrides the anchor outlier threshold
	TauOutlier *float64 `json:"tau_outlier,omitempty"`

	// EnableAnchor overrides the anchor correction switch
	EnableAnchor *bool `json:"enable_anchor,omitempty"`
}

// effective merges request overrides into the server settings
func (req *Request) effective(base *config.Config) (*config.Config, error) {
	cfg := *base
	if req.MaxIterations != nil {
		cfg.Engine.MaxIterations = *req.MaxIterations
	}
	if req.TauOutlier != nil {
		cfg.Engine.TauOutlier = *req.TauOutlier
	}
	if req.EnableAnchor != nil {
		cfg.Engine.EnableAnchor = *req.EnableAnchor
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (req *Request) table() (types.Prices, error) {
	if len(req.Prices) == 0 {
		return nil, errors.Input("prices is required")
	}
	raw := make(map[string]interface{}, len(req.Prices))
	for k, v := range req.Prices {
		raw[k] = v
	}
	return pricetable.FromValues(raw)
}

// Handler implementations

func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *Adapter) handleReady(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *Adapter) handleSample(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"prices": pricetable.Sample()})
}

func (a *Adapter) handleValidate(w http.ResponseWriter, r *http.Request) {
	cfg, prices, ok := a.decode(w, r)
	if !ok {
		return
	}

	violations, err := a.engineFor(cfg).Validate(prices)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	a.render(w, cfg, &output.Report{Source: middleware.GetReqID(r.Context()), Original: prices, Violations: violations})
}

func (a *Adapter) handleFix(w http.ResponseWriter, r *http.Request) {
	cfg, prices, ok := a.decode(w, r)
	if !ok {
		return
	}

	result, err := a.engineFor(cfg).ValidateAndFix(prices)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.mu.Lock()
	a.fixCount++
	if !result.Converged {
		a.unconverged++
	}
	a.mu.Unlock()

	a.render(w, cfg, &output.Report{Source: middleware.GetReqID(r.Context()), Original: prices, Result: result})
}

func (a *Adapter) handleMetrics(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	avgLatency := float64(0)
	if a.requestCount > 0 {
		avgLatency = float64(a.totalLatencyMs) / float64(a.requestCount)
	}

	metrics := fmt.Sprintf(`# HELP pricing_guard_requests_total Total requests
# TYPE pricing_guard_requests_total counter
pricing_guard_requests_total %d

# HELP pricing_guard_errors_total Total error responses
# TYPE pricing_guard_errors_total counter
pricing_guard_errors_total %d

# HELP pricing_guard_fixes_total Total fix runs
# TYPE pricing_guard_fixes_total counter
pricing_guard_fixes_total %d

# HELP pricing_guard_unconverged_total Fix runs that did not converge
# TYPE pricing_guard_unconverged_total counter
pricing_guard_unconverged_total %d

# HELP pricing_guard_latency_avg_ms Average latency
# TYPE pricing_guard_latency_avg_ms gauge
pricing_guard_latency_avg_ms %.2f
`, a.requestCount, a.errorCount, a.fixCount, a.unconverged, avgLatency)

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(metrics))
}

// decode reads the request body and resolves effective settings. It writes
// the error response itself and reports false on failure.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request) (*config.Config, types.Prices, bool) {
	var req Request
	if err := a.parseJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body: "+err.Error(), nil)
		return nil, nil, false
	}
	cfg, err := req.effective(a.settings)
	if err != nil {
		a.writeEngineError(w, err)
		return nil, nil, false
	}
	prices, err := req.table()
	if err != nil {
		a.writeEngineError(w, err)
		return nil, nil, false
	}
	return cfg, prices, true
}

func (a *Adapter) engineFor(cfg *config.Config) *engine.Engine {
	ec, opts := cfg.EngineOptions()
	opts = append(opts, fixer.WithLogger(a.logger.Named("fixer")))
	e := engine.NewDefaultEngine(ec, opts...)
	e.SetLogger(a.logger.Named("engine"))
	return e
}

func (a *Adapter) render(w http.ResponseWriter, cfg *config.Config, report *output.Report) {
	formatter, err := output.Get(output.FormatJSON, cfg.OutputOptions())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := formatter.Render(w, report); err != nil {
		a.logger.Error("failed to render response", zap.Error(err))
	}
}

// Middleware

func (a *Adapter) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(a.config.AllowedOrigins) > 0 && a.config.AllowedOrigins[0] != "*" {
			origin = a.config.AllowedOrigins[0]
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Adapter) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		a.mu.Lock()
		a.requestCount++
		if ww.Status() >= http.StatusBadRequest {
			a.errorCount++
		}
		a.totalLatencyMs += time.Since(start).Milliseconds()
		a.mu.Unlock()
	})
}

func (a *Adapter) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		a.logger.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (a *Adapter) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.logger.Error("panic in handler", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				a.writeError(w, http.StatusInternalServerError, string(errors.TypeInternal), "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Helpers

func (a *Adapter) parseJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, a.config.MaxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (a *Adapter) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *Adapter) writeError(w http.ResponseWriter, status int, code, message string, context map[string]interface{}) {
	body := map[string]interface{}{
		"success": false,
		"code":    code,
		"error":   message,
	}
	if len(context) > 0 {
		body["context"] = context
	}
	a.writeJSON(w, status, body)
}

// writeEngineError maps typed errors to status codes: bad input is 422,
// bad settings 400, anything else 500.
func (a *Adapter) writeEngineError(w http.ResponseWriter, err error) {
	var e *errors.Error
	if !errors.As(err, &e) {
		a.writeError(w, http.StatusInternalServerError, string(errors.TypeInternal), err.Error(), nil)
		return
	}

	status := http.StatusInternalServerError
	switch e.Type {
	case errors.TypeInvalidKeyFormat, errors.TypeMissingAnchorKey, errors.TypeDuplicateAnchorKey,
		errors.TypeInvalidPrice, errors.TypeInput:
		status = http.StatusUnprocessableEntity
	case errors.TypeConfig, errors.TypeNotSupported:
		status = http.StatusBadRequest
	}
	a.writeError(w, status, string(e.Type), e.Error(), e.Context)
}
