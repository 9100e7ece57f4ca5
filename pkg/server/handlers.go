package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/justgrid/pkg/buildinfo"
	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/render"
	"github.com/matzehuels/justgrid/pkg/source"
)

// =============================================================================
// Request Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout. Omitted parameters take the
// server defaults; spacing may be set to 0 explicitly.
type LayoutRequest struct {
	Frames          []source.Entry `json:"frames"`
	ContainerWidth  *int           `json:"container_width,omitempty"`
	MaxRowHeight    *int           `json:"max_row_height,omitempty"`
	Spacing         *int           `json:"spacing,omitempty"`
	JustifyTrailing *bool          `json:"justify_trailing,omitempty"`
	Title           string         `json:"title,omitempty"`
}

// RenderRequest is the body of POST /v1/render/{format}. It carries either
// frames to lay out or a previously computed Document.
type RenderRequest struct {
	LayoutRequest
	Document  *render.Document `json:"document,omitempty"`
	Style     string           `json:"style,omitempty"`
	Captions  *bool            `json:"captions,omitempty"`
	Images    *bool            `json:"images,omitempty"`
	ImageBase string           `json:"image_base,omitempty"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.layoutOptions(&req)
	doc, hit, err := s.layout(r.Context(), &req, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteDocument(&buf, doc); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	var req RenderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.layoutOptions(&req.LayoutRequest)
	opts.Formats = []string{format}
	if req.Style != "" {
		opts.Style = req.Style
	}
	if req.Captions != nil {
		opts.Captions = *req.Captions
	}
	if req.Images != nil {
		opts.Images = *req.Images
	}
	if req.ImageBase != "" {
		opts.ImageBase = req.ImageBase
	}

	doc := req.Document
	if doc != nil {
		if len(req.Frames) > 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "send either frames or a document, not both"))
			return
		}
		if err := doc.Validate(); err != nil {
			s.fail(w, r, err)
			return
		}
		if req.Title != "" {
			doc.Title = req.Title
		}
	} else {
		var err error
		if doc, _, err = s.layout(r.Context(), &req.LayoutRequest, opts); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) layoutOptions(req *LayoutRequest) pipeline.Options {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	opts.Logger = nil
	opts.Title = req.Title
	if req.ContainerWidth != nil {
		opts.ContainerWidth = *req.ContainerWidth
	}
	if req.MaxRowHeight != nil {
		opts.MaxRowHeight = *req.MaxRowHeight
	}
	if req.Spacing != nil {
		opts.Spacing = *req.Spacing
	}
	if req.JustifyTrailing != nil {
		opts.JustifyTrailing = *req.JustifyTrailing
	}
	return opts
}

func (s *Server) layout(ctx context.Context, req *LayoutRequest, opts pipeline.Options) (*render.Document, bool, error) {
	if len(req.Frames) > pipeline.MaxFrames {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "too many frames: %d (max %d)", len(req.Frames), pipeline.MaxFrames)
	}
	frames, err := toFrames(req.Frames)
	if err != nil {
		return nil, false, err
	}
	return s.runner.LayoutWithCacheInfo(ctx, frames, opts)
}

// toFrames converts request entries to frames. Unlike manifests on disk,
// request entries are never probed; missing geometry reaches the engine
// and fails with the frame's index.
func toFrames(entries []source.Entry) ([]layout.Frame[source.Item], error) {
	frames := make([]layout.Frame[source.Item], len(entries))
	for i, e := range entries {
		if err := errors.ValidateURL(e.URL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "frame %d has an invalid link", i)
		}
		frames[i] = layout.Frame[source.Item]{Width: e.Width, Height: e.Height, Payload: e.Item}
	}
	return frames, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	var fe *errors.FrameError
	if stderrors.As(err, &fe) {
		msg = fe.Error() + ": " + msg
	}
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeError(w, r, status, code, msg)
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return errors.GetCode(err).HTTPStatus()
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	st := stateFrom(r.Context())
	st.code = code

	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	body.RequestID = st.id
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
