package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/penilai/internal/config"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/store"
)

const rubricDoc = `## RUBRIK PENILAIAN

| Aspek | Sangat Baik | Baik | Cukup | Perlu Bimbingan |
|---|---|---|---|---|
| Pemahaman konsep | Tepat | Hampir tepat | Sebagian | Belum |
| Komunikasi | Runtut | Cukup runtut | Kurang | Tidak runtut |
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "penilai.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(config.Default().Server, rubric.DefaultKeywords(), st, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtract(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/rubrics/extract", map[string]string{"document": rubricDoc})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[extractResponse](t, rec)
	assert.Equal(t, rubric.SchemeRubric, resp.Rubric.Scheme)
	require.Len(t, resp.Rubric.Criteria, 2)
	assert.Equal(t, "Komunikasi", resp.Rubric.Criteria[1].Aspect)
	assert.Equal(t, rubric.PathRubric, resp.Report.Path)
}

func TestExtractHTML(t *testing.T) {
	s := newTestServer(t)
	html := `<h2>INTERVAL NILAI</h2><table><tr><th>Kriteria</th><th>Interval</th></tr>` +
		`<tr><td>Ketepatan jawaban</td><td>0-100</td></tr></table>`
	rec := do(t, s, http.MethodPost, "/v1/rubrics/extract", map[string]string{"document": html, "format": "html"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[extractResponse](t, rec)
	assert.Equal(t, rubric.SchemeValueInterval, resp.Rubric.Scheme)
	require.Len(t, resp.Rubric.Criteria, 1)
	assert.Equal(t, "Ketepatan jawaban", resp.Rubric.Criteria[0].Aspect)
}

func TestExtractValidation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body any
		code int
		msg  string
	}{
		{"blank document", map[string]string{"document": "   "}, http.StatusUnprocessableEntity, "document is required"},
		{"bad format", map[string]string{"document": "x", "format": "pdf"}, http.StatusUnprocessableEntity, "format must be one of"},
		{"unknown field", `{"document":"x","doc":"y"}`, http.StatusBadRequest, "bad json"},
		{"not json", `{`, http.StatusBadRequest, "bad json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/rubrics/extract", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tt.msg)
		})
	}
}

func TestFinalScore(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
		code int
		want int
	}{
		{"rubric", `{"scheme":"rubric","criteria_count":4,"entry":{"0":4,"1":3,"2":3,"3":2}}`, http.StatusOK, 75},
		{"descriptive", `{"scheme":"descriptive-criteria","criteria_count":4,"entry":{"0":1,"1":1}}`, http.StatusOK, 50},
		{"interval", `{"scheme":"value-interval","criteria_count":3,"entry":{"0":80,"2":60}}`, http.StatusOK, 70},
		{"unknown scores zero", `{"scheme":"unknown","criteria_count":2,"entry":{"0":4}}`, http.StatusOK, 0},
		{"no criteria", `{"scheme":"rubric","criteria_count":0}`, http.StatusOK, 0},
		{"out of range", `{"scheme":"rubric","criteria_count":2,"entry":{"0":5}}`, http.StatusUnprocessableEntity, 0},
		{"index past end", `{"scheme":"rubric","criteria_count":1,"entry":{"3":2}}`, http.StatusUnprocessableEntity, 0},
		{"bad scheme", `{"scheme":"holistik","criteria_count":1}`, http.StatusUnprocessableEntity, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/scores/final", tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code == http.StatusOK {
				assert.Equal(t, tt.want, decodeBody[map[string]int](t, rec)["score"])
			}
		})
	}
}

func TestDocumentsAndGrades(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/documents", map[string]string{"title": "Modul Pecahan", "document": rubricDoc})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[createDocumentResponse](t, rec)
	docID := created.Document.ID
	require.NotEmpty(t, docID)
	assert.Len(t, created.Rubric.Criteria, 2)

	rec = do(t, s, http.MethodGet, "/v1/documents/"+docID+"/rubric", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rubric.SchemeRubric, decodeBody[rubric.Rubric](t, rec).Scheme)

	rec = do(t, s, http.MethodGet, "/v1/documents/"+docID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[documentView](t, rec).Markdown, "RUBRIK PENILAIAN")

	rec = do(t, s, http.MethodGet, "/v1/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]documentView](t, rec), 1)

	rec = do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id":     docID,
		"date":            "2026-03-02",
		"assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{
			"Budi": {"0": 2},
			"Ani":  {"0": 4, "1": 4},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var synced struct {
		SessionID string      `json:"session_id"`
		Grades    []gradeView `json:"grades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &synced))
	require.Len(t, synced.Grades, 2)
	assert.Equal(t, "Ani", synced.Grades[0].Student)
	assert.Equal(t, 100, synced.Grades[0].Score)
	assert.Equal(t, 25, synced.Grades[1].Score)
	assert.Equal(t, "2026-03-02", synced.Grades[1].Date)

	rec = do(t, s, http.MethodGet, "/v1/grades?document_id="+docID+"&student=Budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody[[]gradeView](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, synced.SessionID, listed[0].SessionID)
}

func TestGradesErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": "missing", "date": "2026-03-02", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{"Ani": {"0": 4}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": "x", "date": "02/03/2026", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{"Ani": {"0": 4}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	created := decodeBody[createDocumentResponse](t, do(t, s, http.MethodPost, "/v1/documents",
		map[string]string{"title": "Modul", "document": rubricDoc}))
	rec = do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": created.Document.ID, "date": "2026-03-02", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{"Ani": {"0": 9}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")

	rec = do(t, s, http.MethodGet, "/v1/documents/nope/rubric", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/rubrics/extract", map[string]string{"document": rubricDoc})

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `penilai_rubric_extractions_total{path="rubric",scheme="rubric"} 1`), body)
	assert.Contains(t, body, `penilai_http_requests_total{code="200",method="POST",route="/v1/rubrics/extract"} 1`)
	assert.Contains(t, body, "penilai_rubric_criteria_count 1")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/rubrics/extract", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidationMessagesFollowAcceptLanguage(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		lang string
		want string
	}{
		{"", "document is required"},
		{"id-ID,id;q=0.9,en;q=0.8", "document wajib diisi"},
		{"fr-FR", "document is required"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/rubrics/extract", strings.NewReader(`{"document":" ","format":"pdf"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tt.want)
		})
	}
}

func TestGradesTrimStudentNames(t *testing.T) {
	s := newTestServer(t)
	created := decodeBody[createDocumentResponse](t, do(t, s, http.MethodPost, "/v1/documents",
		map[string]string{"title": "Modul", "document": rubricDoc}))
	docID := created.Document.ID

	rec := do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": docID, "date": "2026-03-02", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{" Ani ": {"0": 4, "1": 4}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var synced struct {
		Grades []gradeView `json:"grades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &synced))
	require.Len(t, synced.Grades, 1)
	assert.Equal(t, "Ani", synced.Grades[0].Student)
	assert.Equal(t, 100, synced.Grades[0].Score)

	rec = do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": docID, "date": "2026-03-02", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{"Ani": {"0": 4}, "Ani ": {"0": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "more than once")

	rec = do(t, s, http.MethodPost, "/v1/grades", map[string]any{
		"document_id": docID, "date": "2026-03-02", "assessment_type": "Sumatif",
		"scores": map[string]map[string]float64{"  ": {"0": 4}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
