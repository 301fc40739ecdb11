package server

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/harmonic/pkg/buildinfo"
	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/httputil"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// cacheHeader reports whether the layout came from the cache.
const cacheHeader = "X-Cache"

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.stats.Snapshot())
}

// handleLayout solves the posted document and returns the layout JSON.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	opts, err := layoutOptions(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set(cacheHeader, cacheStatus(hit))
	httputil.WriteJSON(w, http.StatusOK, l)
}

// handleRender solves the posted document and returns one artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := renderOptions(q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	doc, err := s.readDocument(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set(cacheHeader, cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	httputil.WriteBytes(w, http.StatusOK, pipeline.ContentTypes[format], res.Artifacts[format])
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorBody{
		Code:      errors.ErrCodeInvalidInput,
		Message:   "method " + r.Method + " not allowed",
		RequestID: w.Header().Get(httputil.RequestIDHeader),
	})
}

// readDocument decodes the body, enforces the node limit and applies
// ?pin=i:x,y overrides.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*graph.Document, error) {
	doc, err := httputil.DecodeDocument(w, r, s.cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}
	if n, err := graph.NodeCount(doc.Edges); err == nil && n > s.cfg.MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph has %d nodes, the limit is %d", n, s.cfg.MaxNodes)
	}
	pins, err := graph.ParsePins(r.URL.Query()["pin"])
	if err != nil {
		return nil, err
	}
	if err := doc.OverridePins(pins); err != nil {
		return nil, err
	}
	return doc, nil
}

// =============================================================================
// Query Parsing
// =============================================================================

func layoutOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	if opts.Tolerance, err = floatParam(q, "tolerance"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh"); err != nil {
		return opts, err
	}
	return opts, nil
}

func renderOptions(q url.Values) (pipeline.Options, error) {
	opts, err := layoutOptions(q)
	if err != nil {
		return opts, err
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Style = q.Get("style")

	if opts.Width, err = intParam(q, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q, "height"); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q, "scale"); err != nil {
		return opts, err
	}
	if opts.HideLabels, err = boolParam(q, "hide_labels"); err != nil {
		return opts, err
	}
	if opts.HighlightPins, err = boolParam(q, "highlight_pins"); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q, "detailed"); err != nil {
		return opts, err
	}
	return opts, opts.ValidateForRender()
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: want a non-negative integer, got %q", name, v)
	}
	return n, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: want a non-negative number, got %q", name, v)
	}
	return f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: want a boolean, got %q", name, v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
