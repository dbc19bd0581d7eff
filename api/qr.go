package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/rasterly/qrimage/qrgen"
	"github.com/rasterly/qrimage/store"
)

type generateResponse struct {
	QRPNG   string `json:"qr_png,omitempty"`
	DataURI string `json:"data_uri,omitempty"`
	Size    int    `json:"size"`
	Bytes   int    `json:"bytes"`
}

func (s *Server) handleGenerateGet(w http.ResponseWriter, r *http.Request) {
	size, err := parseSizeParam(r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "size must be an integer")
		return
	}

	req := qrgen.Request{
		Content: r.URL.Query().Get("content"),
		Size:    size,
		Level:   r.URL.Query().Get("level"),
	}
	s.generate(w, req, r.URL.Query().Get("format"))
}

func (s *Server) handleGeneratePost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		qrgen.Request
		Format string `json:"format,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.generate(w, body.Request, body.Format)
}

// handleGenerateWithLogo accepts a multipart form with content, size, level
// and a logo image file to composite over the symbol centre.
func (s *Server) handleGenerateWithLogo(w http.ResponseWriter, r *http.Request) {
	// 10 MB max
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	size, err := parseSizeParam(r.FormValue("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "size must be an integer")
		return
	}

	req := qrgen.Request{
		Content: r.FormValue("content"),
		Level:   r.FormValue("level"),
		Size:    size,
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	logo, err := imaging.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode logo image: "+err.Error())
		return
	}

	img, err := s.Generator.GenerateWithLogo(req, logo)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	s.record(req, img)
	s.respond(w, img, r.FormValue("format"))
}

// generate runs the request through the service and writes the result in
// the requested format.
func (s *Server) generate(w http.ResponseWriter, req qrgen.Request, format string) {
	img, err := s.Generator.Generate(req)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	s.record(req, img)
	s.respond(w, img, format)
}

func (s *Server) respond(w http.ResponseWriter, img *qrgen.EncodedImage, format string) {
	switch strings.ToLower(format) {
	case "", "png":
		w.Header().Set("Content-Type", img.MIME)
		w.WriteHeader(http.StatusOK)
		w.Write(img.PNG)
	case "base64":
		writeJSON(w, http.StatusOK, generateResponse{
			QRPNG: base64.StdEncoding.EncodeToString(img.PNG),
			Size:  img.Size,
			Bytes: len(img.PNG),
		})
	case "datauri":
		writeJSON(w, http.StatusOK, generateResponse{
			DataURI: img.DataURI(),
			Size:    img.Size,
			Bytes:   len(img.PNG),
		})
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

// writeGenerateError maps the service error taxonomy onto HTTP status codes:
// bad input is the caller's fault, capacity overflow is unprocessable.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, qrgen.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, qrgen.ErrEncodingFailure):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// record logs a successful generation to the history store, if enabled.
// History failures never fail the request that produced the image.
func (s *Server) record(req qrgen.Request, img *qrgen.EncodedImage) {
	if s.History == nil {
		return
	}

	level := strings.ToLower(req.Level)
	if level == "" {
		level = s.DefaultLevel
	}

	rec := &store.Record{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(req.Content),
		Size:      img.Size,
		Level:     level,
		Bytes:     len(img.PNG),
		CreatedAt: time.Now().Unix(),
	}
	if err := s.History.SaveRecord(rec); err != nil {
		s.Log.Error("save history record", "error", err)
	}
}

// parseSizeParam parses an optional size parameter. Empty means omitted
// (the service default applies); anything non-numeric is the caller's
// error, unlike pagination parameters which fall back to a default.
func parseSizeParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
