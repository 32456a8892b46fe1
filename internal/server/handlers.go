package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/hyperifyio/gobrief/internal/app"
	"github.com/hyperifyio/gobrief/internal/brief"
	"github.com/hyperifyio/gobrief/internal/schema"
)

// JSON escaping can grow a briefing, so JSON bodies get twice the raw limit.
const jsonOverheadFactor = 2

type parseRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type parseResponse struct {
	Brief brief.StructuredBrief `json:"brief"`
	Trace *brief.Trace          `json:"trace,omitempty"`
	MIME  string                `json:"mime"`
}

type draftRequest struct {
	Text  *string                `json:"text"`
	Brief *brief.StructuredBrief `json:"brief"`
	Mode  string                 `json:"mode"`
}

type validateResponse struct {
	Valid  bool                `json:"valid"`
	Errors []schema.FieldError `json:"errors,omitempty"`
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	build := app.CurrentBuild()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": build.Version,
		"commit":  build.Commit,
		"llm":     s.app.LLMActive(),
	})
}

func (s *Server) schemaHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schema.BriefSchema())
}

// parseHandler accepts JSON {"text","mode"}, a multipart upload in the
// "file" part, or a raw text/plain or text/html body.
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	in, err := s.readBriefing(w, r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	mode, err := s.mode(in.mode, r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	res, err := s.app.ParseBytes(in.source, in.data, mode, queryBool(r, "explain"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Brief: res.Brief, Trace: res.Trace, MIME: res.MIME})
}

// draftHandler drafts from briefing text or from a complete brief, e.g. one
// a user corrected in a form. A supplied brief must pass validation.
// With ?format=markdown the rendered draft is returned instead of JSON.
func (s *Server) draftHandler(w http.ResponseWriter, r *http.Request) {
	var b brief.StructuredBrief
	if isJSON(r) {
		var req draftRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			writeErr(w, r, err)
			return
		}
		switch {
		case req.Brief != nil:
			b = *req.Brief
			b.Normalize()
			if err := brief.Validate(b); err != nil {
				writeErr(w, r, err)
				return
			}
		case req.Text != nil:
			mode, err := s.mode(req.Mode, r)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			res, err := s.app.ParseBytes("request", []byte(*req.Text), mode, false)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			b = res.Brief
		default:
			writeErr(w, r, badRequest(`body needs "text" or "brief"`))
			return
		}
	} else {
		in, err := s.readBriefing(w, r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		mode, err := s.mode(in.mode, r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		res, err := s.app.ParseBytes(in.source, in.data, mode, false)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		b = res.Brief
	}

	res, err := s.app.Draft(r.Context(), b)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, s.app.RenderMarkdown(res))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// validateHandler checks a serialized brief against the JSON Schema.
// Schema violations are a successful answer with valid=false.
func (s *Server) validateHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody*jsonOverheadFactor))
	if err != nil {
		writeErr(w, r, fmt.Errorf("read body: %w", err))
		return
	}
	err = schema.ValidateBrief(data)
	var verr *schema.ValidationError
	var lerr *schema.SchemaLoadError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, validateResponse{Valid: true})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Errors: verr.Errors})
	case errors.As(err, &lerr):
		writeErr(w, r, badRequest(lerr.Error()))
	default:
		writeErr(w, r, err)
	}
}

type briefingInput struct {
	source string
	data   []byte
	mode   string
}

func (s *Server) readBriefing(w http.ResponseWriter, r *http.Request) (briefingInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		// Room for part headers on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody+64<<10)
		if err := r.ParseMultipartForm(s.maxBody); err != nil {
			return briefingInput{}, wrapBodyErr(err)
		}
		in := briefingInput{mode: r.FormValue("mode")}
		file, hdr, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			text := r.FormValue("text")
			if text == "" {
				return briefingInput{}, badRequest(`multipart body needs a "file" or "text" part`)
			}
			in.source, in.data = "text", []byte(text)
			return in, nil
		}
		if err != nil {
			return briefingInput{}, badRequest(err.Error())
		}
		defer file.Close()
		in.source = hdr.Filename
		in.data, err = io.ReadAll(io.LimitReader(file, s.maxBody+1))
		if err != nil {
			return briefingInput{}, fmt.Errorf("read upload: %w", err)
		}
		return in, nil
	case isJSON(r):
		var req parseRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			return briefingInput{}, err
		}
		return briefingInput{source: "request", data: []byte(req.Text), mode: req.Mode}, nil
	default:
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
		if err != nil {
			return briefingInput{}, wrapBodyErr(err)
		}
		return briefingInput{source: "body", data: data}, nil
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody*jsonOverheadFactor))
	if err != nil {
		return wrapBodyErr(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return badRequest("empty request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// mode resolves the parse mode from the body, then ?mode=, then config.
func (s *Server) mode(fromBody string, r *http.Request) (brief.Mode, error) {
	name := fromBody
	if name == "" {
		name = r.URL.Query().Get("mode")
	}
	if name == "" {
		return s.app.Config().ParseMode(), nil
	}
	m, err := brief.ParseMode(name)
	if err != nil {
		return "", badRequest(err.Error())
	}
	return m, nil
}

func wrapBodyErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body exceeds %d bytes: %w", maxErr.Limit, err)
	}
	return badRequest(err.Error())
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
