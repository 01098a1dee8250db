package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statewalk/pkg/buildinfo"
	"github.com/matzehuels/statewalk/pkg/dag/transform"
	"github.com/matzehuels/statewalk/pkg/errors"
	sio "github.com/matzehuels/statewalk/pkg/io"
	"github.com/matzehuels/statewalk/pkg/ordering"
	"github.com/matzehuels/statewalk/pkg/pipeline"
	"github.com/matzehuels/statewalk/pkg/puzzle"
)

// OrderingRequest is the body of POST /v1/orderings.
type OrderingRequest struct {
	Graph     sio.Graph `json:"graph"`
	Algorithm string    `json:"algorithm,omitempty"`
	Quality   string    `json:"quality,omitempty"`
	Timeout   string    `json:"timeout,omitempty"` // Go duration, e.g. "2s"
	Seed      uint64    `json:"seed,omitempty"`
	Normalize bool      `json:"normalize,omitempty"`
	Render    bool      `json:"render,omitempty"`
	Detailed  bool      `json:"detailed,omitempty"`
	Refresh   bool      `json:"refresh,omitempty"`
}

// OrderingResponse is the body returned by POST /v1/orderings.
type OrderingResponse struct {
	sio.Ordering
	GraphHash     string            `json:"graph_hash"`
	CacheHit      bool              `json:"cache_hit"`
	Normalization *transform.Result `json:"normalization,omitempty"`
	SVG           string            `json:"svg,omitempty"`
}

// EnumerationRequest is the body of POST /v1/enumerations.
type EnumerationRequest struct {
	Model   string        `json:"model"`
	Params  puzzle.Params `json:"params"`
	Limit   int           `json:"limit,omitempty"`
	Timeout string        `json:"timeout,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`
}

// EnumerationResponse is the body returned by POST /v1/enumerations.
type EnumerationResponse struct {
	pipeline.Enumeration
	CacheHit bool `json:"cache_hit"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) algorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string][]string{
		"algorithms": ordering.Algorithms(),
		"models":     puzzle.Names(),
	})
}

func (s *Server) order(w http.ResponseWriter, r *http.Request) {
	var req OrderingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	timeout, err := s.timeout(req.Timeout)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := req.Graph.Build()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.cfg.Runner.Order(r.Context(), g, pipeline.Options{
		Algorithm: req.Algorithm,
		Quality:   req.Quality,
		Timeout:   timeout,
		Seed:      req.Seed,
		Normalize: req.Normalize,
		Render:    req.Render,
		Detailed:  req.Detailed,
		Refresh:   req.Refresh,
		Logger:    log.FromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := OrderingResponse{
		Ordering:  res.Ordering,
		GraphHash: res.GraphHash,
		CacheHit:  res.CacheHit,
		SVG:       string(res.SVG),
	}
	if req.Normalize {
		out.Normalization = &res.Normalization
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) enumerate(w http.ResponseWriter, r *http.Request) {
	var req EnumerationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	timeout, err := s.timeout(req.Timeout)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.cfg.Runner.Enumerate(r.Context(), pipeline.EnumerateOptions{
		Model:   req.Model,
		Params:  req.Params,
		Limit:   req.Limit,
		Timeout: timeout,
		Refresh: req.Refresh,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, EnumerationResponse{Enumeration: *res, CacheHit: res.CacheHit})
}

// timeout parses a requested budget and clamps it to the server maximum.
// An empty string means the server maximum for enumerations and the
// quality preset for orderings, so it stays zero here.
func (s *Server) timeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid timeout %q", raw)
	}
	return min(d, s.cfg.MaxTimeout), nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Error("encode response", "error", err)
	}
}

type errorBody struct {
	Error struct {
		Code      errors.Code `json:"code"`
		Message   string      `json:"message"`
		RequestID string      `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	// Client errors keep their cause so callers can fix the request.
	body.Error.Message = errors.UserMessage(err)
	if status < http.StatusInternalServerError {
		body.Error.Message = strings.TrimPrefix(err.Error(), string(body.Error.Code)+": ")
	}
	body.Error.RequestID = w.Header().Get(HeaderRequestID)

	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "error", err)
	}
	writeJSON(w, r, status, body)
}

func notFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
