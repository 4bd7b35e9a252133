package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/penilai/internal/docimport"
	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/store"
)

const maxBodyBytes = docimport.MaxSize + 1<<20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// decode reads a JSON body into v and validates it. On failure it has
// already written the response.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad json: %w", err))
		return false
	}
	if err := s.validate.check(r, v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return false
	}
	return true
}

type extractRequest struct {
	Document string `json:"document" validate:"notblank"`
	Format   string `json:"format" validate:"omitempty,oneof=markdown html"`
}

type extractResponse struct {
	Rubric rubric.Rubric `json:"rubric"`
	Report rubric.Report `json:"report"`
}

// extract imports and parses a document, recording metrics.
func (s *Server) extract(document, format string) (string, rubric.Rubric, rubric.Report, error) {
	md, err := s.importer.ImportString(document, docimport.Format(format))
	if err != nil {
		return "", rubric.Rubric{}, rubric.Report{}, err
	}
	rb, report := s.parser.ParseWithReport(md)
	s.metrics.observeExtraction(rb, report.Path)
	return md, rb, report, nil
}

// POST /v1/rubrics/extract
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	_, rb, report, err := s.extract(req.Document, req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{Rubric: rb, Report: report})
}

type finalScoreRequest struct {
	Scheme        string       `json:"scheme" validate:"required,oneof=rubric descriptive-criteria value-interval unknown"`
	CriteriaCount int          `json:"criteria_count" validate:"gte=0,lte=1000"`
	Entry         rubric.Entry `json:"entry"`
}

// POST /v1/scores/final
func (s *Server) handleFinalScore(w http.ResponseWriter, r *http.Request) {
	var req finalScoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	scheme := rubric.ParseScheme(req.Scheme)
	if scheme.Known() {
		if err := rubric.ValidateEntry(scheme, req.CriteriaCount, req.Entry); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"score": rubric.FinalScoreN(scheme, req.CriteriaCount, req.Entry),
	})
}

type documentView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Markdown  string    `json:"markdown,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func viewDocument(d store.Document, withBody bool) documentView {
	v := documentView{ID: d.ID, Title: d.Title, Source: d.Source, CreatedAt: d.CreatedAt}
	if withBody {
		v.Markdown = d.Markdown
	}
	return v
}

type createDocumentRequest struct {
	Title    string `json:"title" validate:"notblank,max=300"`
	Document string `json:"document" validate:"notblank"`
	Format   string `json:"format" validate:"omitempty,oneof=markdown html"`
}

type createDocumentResponse struct {
	Document documentView  `json:"document"`
	Rubric   rubric.Rubric `json:"rubric"`
	Report   rubric.Report `json:"report"`
}

// POST /v1/documents
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}
	md, rb, report, err := s.extract(req.Document, req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc := &store.Document{Title: req.Title, Source: "api", Markdown: md}
	if err := s.docs.Save(r.Context(), doc); err != nil {
		s.logger.Error("save document", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not save document"))
		return
	}
	if err := s.rubrics.Save(r.Context(), doc.ID, rb); err != nil {
		s.logger.Error("save rubric", "document", doc.ID, "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not save rubric"))
		return
	}
	s.logger.Info("document stored", "document", doc.ID, "scheme", rb.Scheme, "criteria", len(rb.Criteria))
	writeJSON(w, http.StatusCreated, createDocumentResponse{
		Document: viewDocument(*doc, false),
		Rubric:   rb,
		Report:   report,
	})
}

// GET /v1/documents
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context(), store.QueryOpts{Limit: queryInt(r, "limit", 50)})
	if err != nil {
		s.logger.Error("list documents", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not list documents"))
		return
	}
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, viewDocument(d, false))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /v1/documents/{id}
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewDocument(*doc, true))
}

// GET /v1/documents/{id}/rubric
func (s *Server) handleGetRubric(w http.ResponseWriter, r *http.Request) {
	rb, err := s.rubrics.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rb)
}

type createGradesRequest struct {
	DocumentID     string                  `json:"document_id" validate:"notblank"`
	Date           string                  `json:"date" validate:"required,datetime=2006-01-02"`
	AssessmentType string                  `json:"assessment_type" validate:"notblank,max=100"`
	Scores         map[string]rubric.Entry `json:"scores" validate:"required,min=1"`
}

type gradeView struct {
	Student        string        `json:"student"`
	Score          int           `json:"score"`
	Date           string        `json:"date"`
	AssessmentType string        `json:"assessment_type"`
	Scheme         rubric.Scheme `json:"scheme"`
	DocumentID     string        `json:"document_id"`
	SessionID      string        `json:"session_id"`
}

func viewGrade(g store.Grade) gradeView {
	return gradeView{
		Student:        g.Student,
		Score:          g.Score,
		Date:           g.Date.Format(time.DateOnly),
		AssessmentType: g.AssessmentType,
		Scheme:         g.Scheme,
		DocumentID:     g.DocumentID,
		SessionID:      g.SessionID,
	}
}

// POST /v1/grades scores every student in the request against the stored
// rubric of the document and appends their final grades.
func (s *Server) handleCreateGrades(w http.ResponseWriter, r *http.Request) {
	var req createGradesRequest
	if !s.decode(w, r, &req) {
		return
	}
	date, _ := time.Parse(time.DateOnly, req.Date)

	rb, err := s.rubrics.Get(r.Context(), req.DocumentID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	// Names are trimmed the way the session roster trims them; two keys
	// naming the same student are ambiguous.
	scores := make(map[string]rubric.Entry, len(req.Scores))
	for name, entry := range req.Scores {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			writeError(w, http.StatusUnprocessableEntity, errors.New("student name must not be blank"))
			return
		}
		if _, dup := scores[trimmed]; dup {
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("student %q appears more than once", trimmed))
			return
		}
		scores[trimmed] = entry
	}
	students := slices.Sorted(maps.Keys(scores))

	sess, err := grading.NewSession(req.DocumentID, rb, students)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	for _, student := range students {
		entry := scores[student]
		idx := make([]int, 0, len(entry))
		for i := range entry {
			idx = append(idx, i)
		}
		slices.Sort(idx)
		for _, i := range idx {
			if err := sess.SetScore(student, i, entry[i]); err != nil {
				writeError(w, http.StatusUnprocessableEntity, err)
				return
			}
		}
	}

	grades, err := s.grading.Sync(r.Context(), sess, date, req.AssessmentType)
	if err != nil {
		s.logger.Error("sync grades", "session", sess.ID, "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not store grades"))
		return
	}
	s.metrics.observeGrades(rb.Scheme, len(grades))

	out := make([]gradeView, 0, len(grades))
	for _, g := range grades {
		out = append(out, viewGrade(g))
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"grades":     out,
	})
}

// GET /v1/grades?document_id=&session_id=&student=&limit=
func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grades, err := s.grades.List(r.Context(), store.GradeQuery{
		DocumentID: q.Get("document_id"),
		SessionID:  q.Get("session_id"),
		Student:    q.Get("student"),
		QueryOpts:  store.QueryOpts{Limit: queryInt(r, "limit", 0)},
	})
	if err != nil {
		s.logger.Error("list grades", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not list grades"))
		return
	}
	out := make([]gradeView, 0, len(grades))
	for _, g := range grades {
		out = append(out, viewGrade(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.logger.Error("store", "err", err)
	writeError(w, http.StatusInternalServerError, errors.New("storage error"))
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
