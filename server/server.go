// Package server exposes extraction runs over HTTP: input parameters in,
// zip archive out. It is a thin delivery layer; all pipeline semantics live
// in the extract package.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"ytextract/config"
	"ytextract/export"
	"ytextract/extract"
	"ytextract/youtube"
)

// timeNow is swapped in tests to pin the date window.
var timeNow = time.Now

// Server wires the extractor behind an HTTP handler.
type Server struct {
	extractor *extract.Extractor
	cfg       *config.Config
}

// New returns a Server using cfg for defaults (months back).
func New(extractor *extract.Extractor, cfg *config.Config) *Server {
	return &Server{extractor: extractor, cfg: cfg}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/extract", s.handleExtract)

	return r
}

// extractRequest is the JSON body for POST /api/extract.
type extractRequest struct {
	ChannelIDs []string `json:"channelIds"`
	MonthsBack int      `json:"monthsBack"`
	Label      string   `json:"label"`
}

// handleExtract accepts either a JSON body or a newline-delimited text body
// of channel identifiers (the original front-end supported both a pasted
// list and a .txt upload). One identifier runs the strict single-channel
// path; several run the failure-isolating batch path.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	window := extract.WindowFromMonthsBack(req.MonthsBack, timeNow())

	if len(req.ChannelIDs) == 1 {
		s.runSingle(w, r, req.ChannelIDs[0], window)
		return
	}
	s.runBatch(w, r, req, window)
}

func (s *Server) parseRequest(r *http.Request) (*extractRequest, error) {
	req := &extractRequest{MonthsBack: s.cfg.MonthsBack}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/plain") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req.ChannelIDs = splitLines(string(body))
		if v := r.URL.Query().Get("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid months parameter %q", v)
			}
			req.MonthsBack = n
		}
		req.Label = r.URL.Query().Get("label")
	} else {
		var body extractRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		req.ChannelIDs = trimAll(body.ChannelIDs)
		if body.MonthsBack != 0 {
			req.MonthsBack = body.MonthsBack
		}
		req.Label = body.Label
	}

	if len(req.ChannelIDs) == 0 {
		return nil, errors.New("no channel identifiers provided")
	}
	if req.MonthsBack < 1 || req.MonthsBack > 60 {
		return nil, fmt.Errorf("months back must be between 1 and 60, got %d", req.MonthsBack)
	}
	return req, nil
}

func (s *Server) runSingle(w http.ResponseWriter, r *http.Request, channelID string, window extract.DateWindow) {
	result, err := s.extractor.ExtractChannel(r.Context(), channelID, window)
	if err != nil {
		if errors.Is(err, youtube.ErrChannelNotFound) {
			httpError(w, http.StatusNotFound, err.Error())
			return
		}
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	name := export.SingleArchiveName(result.Summary.ChannelName, len(result.Videos))
	writeArchive(w, name, result.Videos, []extract.ChannelSummary{result.Summary})
}

func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, req *extractRequest, window extract.DateWindow) {
	result := s.extractor.ExtractBatch(r.Context(), req.ChannelIDs, window)

	w.Header().Set("X-Run-Id", result.RunID)
	if len(result.Failures) > 0 {
		failed := make([]string, len(result.Failures))
		for i, f := range result.Failures {
			failed[i] = f.ChannelID
		}
		w.Header().Set("X-Failed-Channels", strings.Join(failed, ","))
	}

	writeArchive(w, export.BatchArchiveName(req.Label), result.Videos, result.Summaries)
}

// writeArchive buffers the zip so a packaging failure can still produce a
// clean 500 instead of a torn response.
func writeArchive(w http.ResponseWriter, name string, videos []youtube.VideoRecord, summaries []extract.ChannelSummary) {
	var buf bytes.Buffer
	if err := export.WriteArchive(&buf, videos, summaries); err != nil {
		log.Printf("server: write archive: %v", err)
		httpError(w, http.StatusInternalServerError, "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func httpError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func trimAll(ids []string) []string {
	var out []string
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
