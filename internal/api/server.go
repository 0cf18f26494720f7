// Package api exposes the classify pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"accent-check-go/internal/logger"
	"accent-check-go/internal/pipeline"
	"accent-check-go/internal/processor"
	"accent-check-go/internal/types"
)

// ErrorKindHeader carries the machine-readable failure kind on error responses.
const ErrorKindHeader = "X-Error-Kind"

const maxBodyBytes = 1 << 20

const msgInvalidJSON = "invalid JSON body"

// Runner executes one classify request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (types.ClassifyResponse, error)
	ModelID() string
}

// DemoSource loads the records served by /demo.
type DemoSource func() ([]types.BatchRecord, error)

type Server struct {
	runner    Runner
	log       *logger.Logger
	demo      DemoSource
	demoLimit int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDemo enables GET /demo over records from src, limit rows by default.
func WithDemo(src DemoSource, limit int) Option {
	return func(s *Server) {
		s.demo = src
		s.demoLimit = limit
	}
}

func New(r Runner, opts ...Option) *Server {
	s := &Server{runner: r, log: logger.New(), demoLimit: 5}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.wrap("health", s.health))
	mux.HandleFunc("POST /classify", s.wrap("classify", s.classify))
	if s.demo != nil {
		mux.HandleFunc("GET /demo", s.wrap("demo", s.runDemo))
	}
	return mux
}

// wrap pins a request id, echoes it back and logs the request.
func (s *Server) wrap(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := logger.RequestID(r)
		r.Header.Set(logger.RequestIDHeader, id)
		w.Header().Set(logger.RequestIDHeader, id)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.log.WithRequest(r).
			WithField("handler", name).
			WithField("status", sw.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request served")
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok", Model: s.runner.ModelID()})
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "classify")

	var req types.ClassifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		reqLog.WithField("error", err.Error()).Warn("undecodable body")
		writeError(w, http.StatusBadRequest, pipeline.KindValidation, msgInvalidJSON)
		return
	}
	reqLog = reqLog.WithField("video_url", req.VideoURL).WithField("requested_accent", req.RequestedAccent)
	reqLog.Info("classify request received")

	resp, err := s.runner.Run(r.Context(), pipeline.Request{
		VideoURL:        req.VideoURL,
		RequestedAccent: req.RequestedAccent,
		RequestID:       logger.RequestID(r),
	})
	if err != nil {
		pe := pipeline.AsError(err)
		reqLog.WithField("kind", pe.Kind).WithField("error", pe.Error()).Warn("classify failed")
		writeError(w, pe.Kind.HTTPStatus(), pe.Kind, pe.Message())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runDemo(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "demo")

	limit := s.demoLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, pipeline.KindValidation, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := s.demo()
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("dataset load error")
		writeError(w, http.StatusInternalServerError, pipeline.KindInternal, "dataset load error")
		return
	}
	if len(records) > limit {
		records = records[:limit]
	}
	reqLog.WithField("rows", len(records)).Info("demo invoked")

	rep := processor.New(s.runner, s.log).Process(r.Context(), records)
	writeJSON(w, http.StatusOK, rep)
}

func writeError(w http.ResponseWriter, status int, kind pipeline.Kind, msg string) {
	w.Header().Set(ErrorKindHeader, string(kind))
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
