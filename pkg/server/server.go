package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
	"github.com/yurifrl/budgetu/pkg/service"
)

//go:embed templates/*.html
var templates embed.FS

const maxUpload = 32 << 20

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pdf":  "application/pdf",
	".csv":  "text/csv",
}

// Server turns uploaded datasets into reports and serves the artifacts
// from memory.
type Server struct {
	processor *service.Processor
	logger    *log.Logger
	mux       *http.ServeMux
	template  *template.Template
	files     sync.Map
}

func New(processor *service.Processor, logger *log.Logger) *Server {
	s := &Server{
		processor: processor,
		logger:    logger,
		mux:       http.NewServeMux(),
		template:  template.Must(template.ParseFS(templates, "templates/*.html")),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.respondError(w, r, http.StatusNotFound, "not found", nil)
		return
	}
	if err := s.template.ExecuteTemplate(w, "index.html", map[string]string{"Title": report.DefaultTitle}); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

// SummaryLine is one figure of the summary block.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Group is one row of the grouped sums.
type Group struct {
	Key       string `json:"key"`
	Actual    string `json:"actual"`
	Remaining string `json:"remaining"`
	Rows      int    `json:"rows"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid form", err)
		return
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "dataset file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	req, err := requestFromForm(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	res, err := s.processor.Process(r.Context(), data, header.Filename, req)
	switch {
	case errors.Is(err, models.ErrColumnNotFound), errors.Is(err, models.ErrEmptyDataset):
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	case err != nil:
		s.respondError(w, r, http.StatusBadRequest, "failed to process file: "+err.Error(), err)
		return
	}

	files := map[string]string{}
	exportErrors := map[string]string{}
	for _, a := range []struct {
		kind string
		data []byte
		err  error
	}{
		{"xlsx", res.XLSX, res.XLSXErr},
		{"pdf", res.PDF, res.PDFErr},
	} {
		if a.err != nil {
			exportErrors[a.kind] = a.err.Error()
			continue
		}
		name := res.Name + "." + a.kind
		s.files.Store(name, a.data)
		files[a.kind] = name
	}
	s.logger.Info("report generated", "file", header.Filename, "name", res.Name, "artifacts", len(files))

	locale := s.processor.Locale()
	lines := res.Model.SummaryLines()
	summary := make([]SummaryLine, len(lines))
	for i, l := range lines {
		text := locale.Currency(l.Value)
		if l.Percent {
			text = locale.Percent(l.Value)
		}
		summary[i] = SummaryLine{Label: l.Label, Value: l.Value.StringFixed(2), Text: text}
	}
	groups := make([]Group, len(res.Model.Groups))
	for i, g := range res.Model.Groups {
		groups[i] = Group{Key: g.Key, Actual: g.Actual.String(), Remaining: g.RowActualEcho.String(), Rows: g.Rows}
	}

	body := map[string]any{
		"status":         "success",
		"name":           res.Name,
		"rows":           res.Model.Rows.Len(),
		"parse_failures": res.ParseFailures,
		"summary":        summary,
		"groups":         groups,
		"files":          files,
	}
	if len(exportErrors) > 0 {
		body["errors"] = exportErrors
	}
	if err := s.writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// requestFromForm reads the mapping fields. category may repeat or hold a
// comma separated list.
func requestFromForm(r *http.Request) (service.Request, error) {
	var categories []string
	for _, v := range r.Form["category"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
	}

	rng, err := models.ParseDateRange(r.FormValue("start"), r.FormValue("end"))
	if err != nil {
		return service.Request{}, err
	}

	var autoRange bool
	if v := r.FormValue("auto_range"); v != "" {
		if autoRange, err = strconv.ParseBool(v); err != nil {
			return service.Request{}, fmt.Errorf("invalid auto_range %q", v)
		}
	}

	name := r.FormValue("name")
	if name != "" {
		name = filepath.Base(name)
	}

	return service.Request{
		Name: name,
		Mapping: models.ColumnMapping{
			Budget:   strings.TrimSpace(r.FormValue("budget")),
			Actual:   strings.TrimSpace(r.FormValue("actual")),
			Category: categories,
			Date:     strings.TrimSpace(r.FormValue("date")),
		},
		Range:     rng,
		AutoRange: autoRange,
	}, nil
}

// handleFiles serves an artifact generated by a previous process call.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	filename := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.files.Load(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	data, ok := value.([]byte)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	contentType, ok := contentTypes[filepath.Ext(filename)]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write file response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
