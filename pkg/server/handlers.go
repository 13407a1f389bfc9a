package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/store"
)

// renderable lists the formats served by the render route with their
// content types.
var renderable = map[string]string{
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
}

// layoutResponse describes a stored layout.
type layoutResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"created_at"`
	Options   map[string]string `json:"options,omitempty"`
	Layout    json.RawMessage   `json:"layout,omitempty"`
}

func toResponse(rec *store.Record) layoutResponse {
	resp := layoutResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Options:   rec.Options,
	}
	if len(rec.Layout) > 0 {
		resp.Layout = json.RawMessage(rec.Layout)
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleCreate lays out the source document in the request body and stores
// the result.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: errors.ErrCodeInvalidInput, Message: "request body too large"})
			return
		}
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) == 0 {
		writeError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	root, _, err := s.runner.LoadBytesWithCacheInfo(ctx, body, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, _, err := s.runner.Layout(ctx, root, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	data, err := layout.MarshalLayout(res)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = root.Name
	}
	rec := &store.Record{Name: name, Options: opts.Describe(), Layout: data}
	if err := s.store.Save(ctx, rec); err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.logger.Info("stored layout", "id", rec.ID, "name", rec.Name, "nodes", root.Count())
	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, toResponse(rec))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	out := make([]layoutResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(rec.Layout)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRender renders a stored layout. Query parameters caption,
// stats_label, frame_width, frame_height, text_width, text_height, depth,
// detailed and scale tune the output.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := chi.URLParam(r, "format")
	contentType, ok := renderable[format]
	if !ok {
		writeError(w, s.logger, pipeline.ValidateFormat(format))
		return
	}

	rec, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, err := layout.UnmarshalLayout(rec.Layout)
	if err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInternal, err, "decode stored layout %s", rec.ID))
		return
	}

	opts, err := s.renderOptions(r, format)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	artifacts, err := s.runner.Render(ctx, res, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Query parsing
// =============================================================================

// layoutOptions builds pipeline options for the create route from the
// server defaults, the query string and the request content type.
func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Input = ""
	opts.Logger = s.logger
	q := r.URL.Query()

	opts.Format = q.Get("format")
	if opts.Format == "" {
		opts.Format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	if opts.Format == "" {
		return opts, errors.New(errors.ErrCodeInvalidFormat, "source format is required (query parameter format or Content-Type)")
	}

	if v := q.Get("name_key"); v != "" {
		opts.NameKey = v
	}
	if v := q.Get("size_key"); v != "" {
		opts.SizeKey = v
	}
	if v := q.Get("value_key"); v != "" {
		opts.ValueKey = v
	}
	if q.Has("subtree") {
		path, err := errors.ValidatePath(q.Get("subtree"))
		if err != nil {
			return opts, err
		}
		opts.Subtree = path
	}

	var err error
	if opts.Width, err = floatParam(q.Get("width"), "width", opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q.Get("height"), "height", opts.Height); err != nil {
		return opts, err
	}
	if opts.MinArea, err = floatParam(q.Get("min_area"), "min_area", opts.MinArea); err != nil {
		return opts, err
	}

	if err := opts.ValidateForLoad(); err != nil {
		return opts, err
	}
	return opts, opts.ValidateForLayout()
}

// renderOptions builds pipeline options for the render route.
func (s *Server) renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = s.logger
	opts.Formats = []string{format}
	q := r.URL.Query()

	if q.Has("caption") {
		opts.Caption = q.Get("caption")
	}
	if v := q.Get("stats_label"); v != "" {
		opts.StatsLabel = v
	}
	opts.Detailed = opts.Detailed || q.Get("detailed") == "true"

	var err error
	if opts.FrameWidth, err = floatParam(q.Get("frame_width"), "frame_width", opts.FrameWidth); err != nil {
		return opts, err
	}
	if opts.FrameHeight, err = floatParam(q.Get("frame_height"), "frame_height", opts.FrameHeight); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q.Get("scale"), "scale", opts.Scale); err != nil {
		return opts, err
	}
	if opts.TextWidth, err = intParam(q.Get("text_width"), "text_width", opts.TextWidth); err != nil {
		return opts, err
	}
	if opts.TextHeight, err = intParam(q.Get("text_height"), "text_height", opts.TextHeight); err != nil {
		return opts, err
	}
	if opts.MaxDepth, err = intParam(q.Get("depth"), "depth", opts.MaxDepth); err != nil {
		return opts, err
	}
	return opts, opts.ValidateForRender()
}

func floatParam(raw, name string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", name, raw)
	}
	return v, nil
}

func intParam(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not an integer", name, raw)
	}
	return v, nil
}

// formatFromContentType maps a request media type to a source format, or
// returns "" when the type names none.
func formatFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		return string(source.FormatJSON)
	case mt == "application/xml" || mt == "text/xml" || strings.HasSuffix(mt, "+xml"):
		return string(source.FormatXML)
	case mt == "application/yaml" || mt == "application/x-yaml" || mt == "text/yaml":
		return string(source.FormatYAML)
	case mt == "application/toml":
		return string(source.FormatTOML)
	}
	return ""
}
