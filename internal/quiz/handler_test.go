package quiz_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
	"github.com/saulo-duarte/pestcert-lambda/internal/quiz"
)

type fakeStore struct {
	banks map[content.Bank][]question.Record
	err   error
}

func (f *fakeStore) ListFlashcards(context.Context, content.FlashcardFilter) ([]content.Flashcard, error) {
	return nil, nil
}

func (f *fakeStore) ListQuizQuestions(_ context.Context, filter content.QuestionFilter) ([]question.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return question.FilterByLevel(f.banks[filter.Bank], filter.Level), nil
}

func letteredRecords(n int, correct string) []question.Record {
	out := make([]question.Record, n)
	for i := range out {
		out[i] = &question.LetteredRecord{
			Question:      "prompt",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectOption: correct,
		}
	}
	return out
}

type harness struct {
	srv     http.Handler
	svc     quiz.Service
	sched   *manualScheduler
	timers  []*manualTimer
	now     time.Time
	adminJW string
}

func newHarness(t *testing.T, store content.Store) *harness {
	t.Helper()

	db, err := config.Connect(context.Background(), config.DriverSQLite, filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := db.AutoMigrate(&quiz.Attempt{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	h := &harness{sched: &manualScheduler{}, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := quiz.NewQuizContainer(db, store, quiz.Config{
		AdvanceDelay:     600 * time.Millisecond,
		FinalExamMinutes: 60,
		IdleTTL:          time.Hour,
		Scheduler:        h.sched,
		NewTimer: func() quiz.Timer {
			tm := &manualTimer{}
			h.timers = append(h.timers, tm)
			return tm
		},
		Now: func() time.Time { return h.now },
	})
	h.svc = c.Service
	t.Cleanup(c.Service.Close)

	auth.Init("quiz-handler-test-secret")
	h.adminJW, _ = auth.GenerateJWT("admin@example.com", auth.RoleAdmin, time.Minute)

	r := chi.NewRouter()
	r.Mount("/quiz", quiz.Routes(c.Handler))
	h.srv = r
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if strings.HasSuffix(path, "/attempts") {
		req.Header.Set("Authorization", "Bearer "+h.adminJW)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

type startBody struct {
	Session *quiz.View `json:"session"`
	Message string     `json:"message"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func (h *harness) start(t *testing.T, body string) *quiz.View {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/quiz/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[startBody](t, rec)
	if resp.Session == nil {
		t.Fatal("start returned no session")
	}
	return resp.Session
}

func TestStartEmptyBankReportsNoQuestions(t *testing.T) {
	h := newHarness(t, &fakeStore{})
	rec := h.do(t, http.MethodPost, "/quiz/sessions", `{"kind":"module","category":"lawn-and-turf"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[startBody](t, rec)
	if resp.Session != nil || resp.Message != "no questions available" {
		t.Errorf("got %+v", resp)
	}
}

func TestStartStoreFailureReadsAsEmpty(t *testing.T) {
	h := newHarness(t, &fakeStore{err: errors.New("connection refused")})
	rec := h.do(t, http.MethodPost, "/quiz/sessions", `{"kind":"core"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[startBody](t, rec); resp.Session != nil {
		t.Errorf("got a session from a failing store")
	}
}

func TestStartRejectsUnknownKind(t *testing.T) {
	h := newHarness(t, &fakeStore{})
	if rec := h.do(t, http.MethodPost, "/quiz/sessions", `{"kind":"pop"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStartAdvanceOverride(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankQuizzes: letteredRecords(2, "a"),
	}})

	if rec := h.do(t, http.MethodPost, "/quiz/sessions", `{"kind":"module","advance":"later"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad advance status = %d, want 400", rec.Code)
	}

	v := h.start(t, `{"kind":"module","advance":"manual"}`)
	if v.Advance != quiz.AdvanceManual {
		t.Fatalf("advance = %q, want manual", v.Advance)
	}
	base := "/quiz/sessions/" + v.ID.String()
	h.do(t, http.MethodPost, base+"/answer", `{"choice":0}`)
	h.sched.Run()
	if v := decode[*quiz.View](t, h.do(t, http.MethodGet, base, "")); v.CurrentIndex != 0 {
		t.Errorf("manual session moved on its own to %d", v.CurrentIndex)
	}
}

func TestModuleQuizFlow(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankQuizzes: letteredRecords(2, "b"),
	}})

	v := h.start(t, `{"kind":"module","category":"lawn-and-turf","level":"Beginner"}`)
	if v.Advance != quiz.AdvanceAuto || v.Timed || v.Total != 2 || v.Level != question.LevelBeginner {
		t.Fatalf("unexpected session %+v", v)
	}
	if v.Question == nil || v.Question.CorrectIndex != nil {
		t.Fatalf("correct answer leaked before answering: %+v", v.Question)
	}
	base := "/quiz/sessions/" + v.ID.String()

	rec := h.do(t, http.MethodPost, base+"/answer", `{"choice":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status = %d", rec.Code)
	}
	v = decode[*quiz.View](t, rec)
	if v.Question.CorrectIndex == nil || *v.Question.CorrectIndex != 1 || v.AnswerCorrect == nil || !*v.AnswerCorrect {
		t.Errorf("answered view = %+v", v)
	}

	if rec := h.do(t, http.MethodGet, base+"/result", ""); rec.Code != http.StatusConflict {
		t.Errorf("result while in progress = %d, want 409", rec.Code)
	}

	h.sched.Run()
	h.do(t, http.MethodPost, base+"/answer", `{"choice":0}`)
	h.sched.Run()

	rec = h.do(t, http.MethodGet, base+"/result", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d", rec.Code)
	}
	v = decode[*quiz.View](t, rec)
	if v.Result == nil || v.Result.Score != 1 || v.Result.Percent != 50 || v.Result.Pass {
		t.Errorf("result = %+v", v.Result)
	}

	rec = h.do(t, http.MethodGet, "/quiz/attempts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("attempts status = %d", rec.Code)
	}
	attempts := decode[[]quiz.Attempt](t, rec)
	if len(attempts) != 1 || attempts[0].Kind != quiz.KindModule || attempts[0].Category != "lawn-and-turf" || attempts[0].Percent != 50 {
		t.Errorf("attempts = %+v", attempts)
	}
}

func TestFinalExamFlow(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankFinalTests: letteredRecords(3, "A"),
	}})

	v := h.start(t, `{"kind":"final"}`)
	if !v.Timed || v.Advance != quiz.AdvanceManual || v.DurationSeconds != 3600 || v.Clock != "60:00" || v.LowTime {
		t.Fatalf("unexpected final session %+v", v)
	}
	base := "/quiz/sessions/" + v.ID.String()

	h.do(t, http.MethodPost, base+"/answer", `{"choice":0}`)
	h.sched.Run()
	v = decode[*quiz.View](t, h.do(t, http.MethodGet, base, ""))
	if v.CurrentIndex != 0 {
		t.Fatalf("manual session advanced on its own: %+v", v)
	}

	v = decode[*quiz.View](t, h.do(t, http.MethodPost, base+"/next", ""))
	if v.CurrentIndex != 1 || v.SelectedChoice != nil {
		t.Fatalf("next = %+v", v)
	}

	v = decode[*quiz.View](t, h.do(t, http.MethodPost, base+"/expire", ""))
	if v.Status != quiz.StatusComplete || !v.TimedOut || v.Result == nil || v.Result.Score != 1 || v.Result.Total != 3 {
		t.Errorf("expired = %+v", v)
	}
	if len(h.timers) != 1 || h.timers[0].armed {
		t.Error("timer still armed after expiry")
	}

	attempts := decode[[]quiz.Attempt](t, h.do(t, http.MethodGet, "/quiz/attempts", ""))
	if len(attempts) != 1 || !attempts[0].TimedOut || attempts[0].Passed {
		t.Errorf("attempts = %+v", attempts)
	}
}

func TestCustomDuration(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankCoreExam: letteredRecords(2, "A"),
	}})

	v := h.start(t, `{"kind":"core","duration_seconds":30}`)
	if !v.Timed || v.DurationSeconds != 30 {
		t.Fatalf("got %+v", v)
	}
	for i := 0; i < 27; i++ {
		h.timers[0].Tick()
	}
	v = decode[*quiz.View](t, h.do(t, http.MethodGet, "/quiz/sessions/"+v.ID.String(), ""))
	if *v.TimeRemainingSeconds != 3 || !v.LowTime || v.Clock != "00:03" {
		t.Errorf("got remaining %v low %v clock %q", *v.TimeRemainingSeconds, v.LowTime, v.Clock)
	}
}

func TestOverdueExamExpiresOnNextRequest(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankFinalTests: letteredRecords(3, "A"),
	}})

	v := h.start(t, `{"kind":"final"}`)
	base := "/quiz/sessions/" + v.ID.String()
	h.do(t, http.MethodPost, base+"/answer", `{"choice":0}`)

	// Deadline passed with the process paused: no tick or expiry was delivered.
	tm := h.timers[0]
	tm.mu.Lock()
	tm.remaining = 0
	tm.mu.Unlock()

	v = decode[*quiz.View](t, h.do(t, http.MethodGet, base, ""))
	if v.Status != quiz.StatusComplete || !v.TimedOut || v.Result == nil || v.Result.Score != 1 {
		t.Fatalf("overdue exam = %+v", v)
	}
	if tm.armed {
		t.Error("timer still armed after the overdue expiry")
	}
	attempts := decode[[]quiz.Attempt](t, h.do(t, http.MethodGet, "/quiz/attempts", ""))
	if len(attempts) != 1 || !attempts[0].TimedOut {
		t.Errorf("attempts = %+v", attempts)
	}
}

func TestAnswerValidation(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankQuizzes: letteredRecords(1, "A"),
	}})
	v := h.start(t, `{"kind":"module"}`)
	base := "/quiz/sessions/" + v.ID.String()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"OutOfRange", `{"choice":7}`, http.StatusBadRequest},
		{"Missing", `{}`, http.StatusBadRequest},
		{"Malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := h.do(t, http.MethodPost, base+"/answer", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	h := newHarness(t, &fakeStore{})

	if rec := h.do(t, http.MethodGet, "/quiz/sessions/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/quiz/sessions/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResetAndDiscard(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankFinalTests: letteredRecords(2, "A"),
	}})
	v := h.start(t, `{"kind":"final"}`)
	oldBase := "/quiz/sessions/" + v.ID.String()
	h.do(t, http.MethodPost, oldBase+"/answer", `{"choice":0}`)

	rec := h.do(t, http.MethodPost, oldBase+"/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	fresh := decode[*quiz.View](t, rec)
	if fresh.ID == v.ID || fresh.Score != 0 || fresh.CurrentIndex != 0 || fresh.SelectedChoice != nil {
		t.Errorf("reset view = %+v", fresh)
	}
	if rec := h.do(t, http.MethodGet, oldBase, ""); rec.Code != http.StatusNotFound {
		t.Errorf("old session still reachable: %d", rec.Code)
	}
	if len(h.timers) != 2 || h.timers[0].armed || !h.timers[1].armed {
		t.Error("reset did not swap timers")
	}

	newBase := "/quiz/sessions/" + fresh.ID.String()
	if rec := h.do(t, http.MethodDelete, newBase, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if h.timers[1].armed {
		t.Error("discarded session kept its timer")
	}
	if rec := h.do(t, http.MethodDelete, newBase, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestSweep(t *testing.T) {
	h := newHarness(t, &fakeStore{banks: map[content.Bank][]question.Record{
		content.BankFinalTests: letteredRecords(2, "A"),
	}})
	idle := h.start(t, `{"kind":"final"}`)

	h.now = h.now.Add(50 * time.Minute)
	active := h.start(t, `{"kind":"final"}`)

	if n := h.svc.Sweep(h.now.Add(20 * time.Minute)); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if rec := h.do(t, http.MethodGet, "/quiz/sessions/"+idle.ID.String(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("idle session survived: %d", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/quiz/sessions/"+active.ID.String(), ""); rec.Code != http.StatusOK {
		t.Errorf("active session swept: %d", rec.Code)
	}
	if h.timers[0].armed {
		t.Error("swept session kept its timer")
	}
}

func TestAttemptsRequireAdmin(t *testing.T) {
	h := newHarness(t, &fakeStore{})
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quiz/attempts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
