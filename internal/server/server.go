// Package server exposes the barcode reader over HTTP: a multipart scan
// endpoint, a WebSocket endpoint for streamed requests, health and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// barcodeReader is the slice of the reader API the server needs.
type barcodeReader interface {
	ReadImageOptions(ctx context.Context, img image.Image, opts barcode.Options) ([]barcode.Result, error)
	Options() barcode.Options
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
	ScanOptions barcode.Options
}

// Server holds the HTTP server state and dependencies.
//
// Decode calls are serialized through mu because engines are not required
// to be safe for concurrent use.
type Server struct {
	reader      barcodeReader
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	defaults    barcode.Options

	mu sync.Mutex
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// FormatsResponse lists the barcode formats the engine can decode.
type FormatsResponse struct {
	Formats []string `json:"formats"`
	Count   int      `json:"count"`
}

// ScanResponse is the /scan payload.
type ScanResponse struct {
	Success bool            `json:"success"`
	Result  output.Document `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewServer creates a scan server around an existing reader.
func NewServer(r barcodeReader, config Config) (*Server, error) {
	if r == nil {
		return nil, fmt.Errorf("server: reader must not be nil")
	}
	defaults := config.ScanOptions
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 32
	}
	if config.CORSOrigin == "" {
		config.CORSOrigin = "*"
	}
	return &Server{
		reader:      r,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		defaults:    defaults,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/scan", s.corsMiddleware(s.scanHandler))
	mux.HandleFunc("/ws", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// decode runs one serialized decode through the reader.
func (s *Server) decode(ctx context.Context, img image.Image, opts barcode.Options) ([]barcode.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader.ReadImageOptions(ctx, img, opts)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware adds CORS headers and records request metrics.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next(rw, r)
		duration := time.Since(start)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, http.StatusText(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, ScanResponse{Success: false, Error: message})
}
