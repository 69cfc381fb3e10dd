package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/budgetu/pkg/service"
)

const dataset = `Anggaran;Realisasi;Kategori;Tanggal
1.000.000;200.000;A;2024-01-05
1.000.000;300.000;A;2024-02-20
1.000.000;100.000;B;2024-03-10
`

func newServer() *Server {
	logger := log.New(&bytes.Buffer{})
	return New(service.NewProcessor(service.Config{}, logger), logger)
}

func upload(t *testing.T, filename, content string, fields map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("dataset", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type processResponse struct {
	Status        string            `json:"status"`
	Error         string            `json:"error"`
	Name          string            `json:"name"`
	Rows          int               `json:"rows"`
	ParseFailures int               `json:"parse_failures"`
	Summary       []SummaryLine     `json:"summary"`
	Groups        []Group           `json:"groups"`
	Files         map[string]string `json:"files"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) processResponse {
	t.Helper()
	var out processResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProcessAndDownload(t *testing.T) {
	s := newServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, upload(t, "anggaran.csv", dataset, map[string][]string{
		"budget":   {"Anggaran"},
		"actual":   {"Realisasi"},
		"category": {"Kategori"},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode(t, rec)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "anggaran", res.Name)
	assert.Equal(t, 3, res.Rows)
	require.Len(t, res.Summary, 5)
	assert.Equal(t, SummaryLine{Label: "Total Anggaran", Value: "1000000.00", Text: "Rp 1.000.000"}, res.Summary[0])
	assert.Equal(t, "60,00%", res.Summary[3].Text)
	assert.Equal(t, []Group{
		{Key: "A", Actual: "500000", Remaining: "500000", Rows: 2},
		{Key: "B", Actual: "100000", Remaining: "100000", Rows: 1},
	}, res.Groups)
	assert.Equal(t, map[string]string{"xlsx": "anggaran.xlsx", "pdf": "anggaran.pdf"}, res.Files)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/anggaran.pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/anggaran.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="anggaran.xlsx"`)
}

func TestProcessDateRangeAndCategoryList(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().Handler().ServeHTTP(rec, upload(t, "anggaran.csv", dataset, map[string][]string{
		"budget":   {"Anggaran"},
		"actual":   {"Realisasi"},
		"category": {"Kategori, Tanggal"},
		"date":     {"Tanggal"},
		"start":    {"2024-02-01"},
		"name":     {"../q1"},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode(t, rec)
	assert.Equal(t, "q1", res.Name)
	assert.Equal(t, 2, res.Rows)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "A - 2024-02-20", res.Groups[0].Key)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		fields   map[string][]string
		status   int
		message  string
	}{
		{
			name:     "missing column",
			filename: "a.csv",
			fields:   map[string][]string{"budget": {"Pagu"}},
			status:   http.StatusUnprocessableEntity,
			message:  `budget column "Pagu" not found in dataset`,
		},
		{
			name:     "empty range",
			filename: "a.csv",
			fields:   map[string][]string{"budget": {"Anggaran"}, "date": {"Tanggal"}, "start": {"2030-01-01"}},
			status:   http.StatusUnprocessableEntity,
			message:  "empty dataset",
		},
		{
			name:     "bad range",
			filename: "a.csv",
			fields:   map[string][]string{"budget": {"Anggaran"}, "start": {"tomorrow"}},
			status:   http.StatusBadRequest,
			message:  "invalid start date",
		},
		{
			name:     "unknown type",
			filename: "a.json",
			fields:   map[string][]string{"budget": {"Anggaran"}},
			status:   http.StatusBadRequest,
			message:  "unknown file type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newServer().Handler().ServeHTTP(rec, upload(t, tt.filename, dataset, tt.fields))
			assert.Equal(t, tt.status, rec.Code)
			res := decode(t, rec)
			assert.Equal(t, "error", res.Status)
			assert.Contains(t, res.Error, tt.message)
		})
	}
}

func TestProcessMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/process", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFileNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/nope.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHome(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="dataset"`)
	assert.Contains(t, rec.Body.String(), "Laporan Anggaran")
}

func TestWithLoggingRecoversPanics(t *testing.T) {
	s := newServer()
	h := s.withLogging(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
