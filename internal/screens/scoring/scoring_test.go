package scoring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/router"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/screens/summary"
	"github.com/abhisek/penilai/internal/store"
)

type fakePersister struct {
	drafts  int
	synced  *grading.Session
	date    time.Time
	kind    string
	syncErr error
}

func (f *fakePersister) SaveDraft(context.Context, *grading.Session) error {
	f.drafts++
	return nil
}

func (f *fakePersister) Sync(_ context.Context, sess *grading.Session, date time.Time, kind string) ([]store.Grade, error) {
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	f.synced, f.date, f.kind = sess, date, kind
	var grades []store.Grade
	for _, r := range sess.Results() {
		grades = append(grades, store.Grade{Student: r.Student, Score: r.Score, Date: date, AssessmentType: kind})
	}
	return grades, nil
}

func newScreen(t *testing.T, scheme rubric.Scheme, p Persister) *ScoringScreen {
	t.Helper()
	r := rubric.Rubric{
		Scheme: scheme,
		Criteria: []rubric.Criterion{
			{Aspect: "Pemahaman konsep", Indicator: "Menjelaskan ide pokok", Levels: []rubric.Level{
				{Score: 1, Label: "Perlu Bimbingan", Description: "Belum mampu"},
				{Score: 2, Label: "Cukup", Description: "Sebagian"},
				{Score: 3, Label: "Baik", Description: "Sebagian besar"},
				{Score: 4, Label: "Sangat Baik", Description: "Seluruhnya"},
			}},
			{Aspect: "Kerja sama"},
		},
	}
	sess, err := grading.NewSession("doc-1", r, []string{"Ani", "Budi"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return New(sess, p, Options{Date: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), AssessmentType: "Formatif"}, 0)
}

func press(s *ScoringScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

func runes(text string) []tea.KeyPressMsg {
	var keys []tea.KeyPressMsg
	for _, r := range text {
		keys = append(keys, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return keys
}

var (
	enter     = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc       = tea.KeyPressMsg{Code: tea.KeyEscape}
	down      = tea.KeyPressMsg{Code: tea.KeyDown}
	tab       = tea.KeyPressMsg{Code: tea.KeyTab}
	shiftTab  = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	space     = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	backspace = tea.KeyPressMsg{Code: tea.KeyBackspace}
	ctrlS     = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
)

func TestRubricLevelKeys(t *testing.T) {
	s := newScreen(t, rubric.SchemeRubric, nil)

	press(s, runes("3")...)
	press(s, down)
	press(s, runes("4")...)

	if v, ok := s.sess.Score("Ani", 0); !ok || v != 3 {
		t.Fatalf("criterion 0 = %v (%v), want 3", v, ok)
	}
	if got, _ := s.sess.FinalScore("Ani"); got != 88 {
		t.Fatalf("final score = %d, want 88", got)
	}

	press(s, runes("9")...)
	if v, _ := s.sess.Score("Ani", 1); v != 4 {
		t.Fatalf("out-of-scale key changed the score to %v", v)
	}

	press(s, backspace)
	if _, ok := s.sess.Score("Ani", 1); ok {
		t.Fatal("backspace should clear the score")
	}
}

func TestDescriptiveToggle(t *testing.T) {
	s := newScreen(t, rubric.SchemeDescriptiveCriteria, nil)

	press(s, space)
	if v, ok := s.sess.Score("Ani", 0); !ok || v != 1 {
		t.Fatalf("first toggle = %v (%v), want met", v, ok)
	}
	press(s, space)
	if v, _ := s.sess.Score("Ani", 0); v != 0 {
		t.Fatalf("second toggle = %v, want unmet", v)
	}
	if !strings.Contains(s.View(100, 30), "not met") {
		t.Error("view should show the unmet flag")
	}
}

func TestValueIntervalEditing(t *testing.T) {
	s := newScreen(t, rubric.SchemeValueInterval, nil)

	press(s, enter)
	if !s.CapturesInput() {
		t.Fatal("enter should start editing")
	}
	press(s, runes("87,5")...)
	press(s, enter)

	if s.CapturesInput() {
		t.Fatal("enter should commit the value")
	}
	if v, ok := s.sess.Score("Ani", 0); !ok || v != 87.5 {
		t.Fatalf("score = %v (%v), want 87.5", v, ok)
	}
	if s.cursor != 1 {
		t.Fatalf("cursor should advance after commit, got %d", s.cursor)
	}
}

func TestValueIntervalRejectsOutOfRange(t *testing.T) {
	s := newScreen(t, rubric.SchemeValueInterval, nil)

	press(s, enter)
	press(s, runes("150")...)
	press(s, enter)

	if !s.CapturesInput() {
		t.Fatal("an out-of-range value should keep the editor open")
	}
	if _, ok := s.sess.Score("Ani", 0); ok {
		t.Fatal("out-of-range value must not be stored")
	}

	press(s, esc)
	if s.CapturesInput() {
		t.Fatal("esc should cancel editing")
	}
}

func TestValueIntervalIgnoresLetters(t *testing.T) {
	s := newScreen(t, rubric.SchemeValueInterval, nil)

	press(s, enter)
	press(s, runes("7a0")...)
	if s.input.Value() != "70" {
		t.Fatalf("input = %q, want %q", s.input.Value(), "70")
	}
}

func TestTabSwitchesStudentAndSavesDraft(t *testing.T) {
	p := &fakePersister{}
	s := newScreen(t, rubric.SchemeRubric, p)

	cmd := press(s, tab)
	if s.currentStudent() != "Budi" {
		t.Fatalf("tab should move to Budi, got %s", s.currentStudent())
	}
	if cmd == nil {
		t.Fatal("expected a draft-save command")
	}
	s.Update(cmd())
	if p.drafts != 1 || s.status != "Draft saved" {
		t.Fatalf("draft not saved: drafts=%d status=%q", p.drafts, s.status)
	}

	press(s, shiftTab, shiftTab)
	if s.currentStudent() != "Budi" {
		t.Fatalf("shift+tab should wrap around, got %s", s.currentStudent())
	}
}

func TestSyncReplacesWithSummary(t *testing.T) {
	p := &fakePersister{}
	s := newScreen(t, rubric.SchemeRubric, p)
	press(s, runes("4")...)

	cmd := press(s, ctrlS)
	if cmd == nil {
		t.Fatal("expected a sync command")
	}
	_, next := s.Update(cmd())
	if p.synced == nil || p.kind != "Formatif" {
		t.Fatalf("sync not called with options: %+v", p)
	}
	if next == nil {
		t.Fatal("expected a navigation command after sync")
	}
	replace, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Fatalf("expected summary screen, got %T", replace.Screen)
	}
}

func TestSyncErrorShown(t *testing.T) {
	p := &fakePersister{syncErr: errors.New("database is locked")}
	s := newScreen(t, rubric.SchemeRubric, p)

	cmd := press(s, ctrlS)
	_, next := s.Update(cmd())
	if next != nil {
		t.Fatal("failed sync must not navigate")
	}
	if !strings.Contains(s.View(100, 30), "database is locked") {
		t.Error("view should show the sync error")
	}
}

func TestKeyHintsFollowScheme(t *testing.T) {
	s := newScreen(t, rubric.SchemeDescriptiveCriteria, nil)
	found := false
	for _, h := range s.KeyHints() {
		if h.Key == "Space" {
			found = true
		}
	}
	if !found {
		t.Error("descriptive criteria should hint the space toggle")
	}
}

func TestViewShowsLevelDescription(t *testing.T) {
	s := newScreen(t, rubric.SchemeRubric, nil)
	press(s, runes("4")...)

	view := s.View(120, 40)
	for _, want := range []string{"Ani", "Pemahaman konsep", "Sangat Baik", "Seluruhnya", "50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// draftReader reads every entry of the session it is given, repeatedly, the
// way a slow store would while the user keeps scoring.
type draftReader struct {
	fakePersister
	mu   sync.Mutex
	seen map[string]rubric.Entry
}

func (p *draftReader) SaveDraft(_ context.Context, sess *grading.Session) error {
	for range 500 {
		for _, student := range sess.Students {
			e, _ := sess.Entry(student)
			p.mu.Lock()
			p.seen[student] = e
			p.mu.Unlock()
		}
	}
	return nil
}

func TestDraftSaveRunsAlongsideScoring(t *testing.T) {
	p := &draftReader{seen: map[string]rubric.Entry{}}
	s := newScreen(t, rubric.SchemeRubric, p)
	press(s, runes("3")...)

	cmd := press(s, tab)
	if cmd == nil {
		t.Fatal("expected a draft-save command")
	}

	done := make(chan tea.Msg)
	go func() { done <- cmd() }()
	for range 500 {
		press(s, runes("4")...)
		press(s, backspace)
	}
	press(s, runes("2")...)
	s.Update(<-done)

	p.mu.Lock()
	defer p.mu.Unlock()
	if v := p.seen["Ani"][0]; v != 3 {
		t.Errorf("draft for Ani = %v, want 3", v)
	}
	if len(p.seen["Budi"]) != 0 {
		t.Errorf("draft must hold the scores at the time of Tab, got %v for Budi", p.seen["Budi"])
	}
	if v, _ := s.sess.Score("Budi", 0); v != 2 {
		t.Errorf("live score for Budi = %v, want 2", v)
	}
}

func TestEscIgnoredWhileSyncing(t *testing.T) {
	p := &fakePersister{}
	s := newScreen(t, rubric.SchemeRubric, p)

	cmd := press(s, ctrlS)
	if !s.CapturesInput() {
		t.Fatal("screen should hold input while a sync is running")
	}
	if next := press(s, esc); next != nil {
		t.Fatal("esc during sync must not navigate")
	}

	_, next := s.Update(cmd())
	if s.CapturesInput() {
		t.Error("input should be released once the sync finished")
	}
	if _, ok := next().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected the summary to replace the scoring screen")
	}
}
