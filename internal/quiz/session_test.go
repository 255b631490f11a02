package quiz_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
	"github.com/saulo-duarte/pestcert-lambda/internal/quiz"
)

// manualTimer is a Timer driven by explicit Tick calls instead of wall-clock time.
type manualTimer struct {
	mu        sync.Mutex
	remaining int
	armed     bool
	fired     int
	cancels   int
	onTick    func(int)
	onExpire  func()
}

func (m *manualTimer) Arm(seconds int, onTick func(int), onExpire func()) {
	m.Cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining = seconds
	m.armed = true
	m.onTick = onTick
	m.onExpire = onExpire
}

func (m *manualTimer) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.armed {
		m.cancels++
	}
	m.armed = false
}

func (m *manualTimer) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

func (m *manualTimer) Tick() {
	m.mu.Lock()
	if !m.armed {
		m.mu.Unlock()
		return
	}
	if m.remaining > 0 {
		m.remaining--
	}
	remaining := m.remaining
	expired := remaining == 0
	if expired {
		m.armed = false
		m.fired++
	}
	onTick, onExpire := m.onTick, m.onExpire
	m.mu.Unlock()

	onTick(remaining)
	if expired {
		onExpire()
	}
}

// manualScheduler holds scheduled funcs until Run is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	f         func()
	cancelled bool
}

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &scheduled{f: f}
	m.pending = append(m.pending, s)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		s.cancelled = true
	}
}

func (m *manualScheduler) Run() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, s := range pending {
		m.mu.Lock()
		cancelled := s.cancelled
		m.mu.Unlock()
		if !cancelled {
			s.f()
		}
	}
}

func bank(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			Prompt:       "question",
			Choices:      [question.ChoiceCount]string{"a", "b", "c", "d"},
			CorrectIndex: i % question.ChoiceCount,
		}
	}
	return qs
}

func manualOpts(sched *manualScheduler) quiz.Options {
	return quiz.Options{Advance: quiz.AdvanceManual, Scheduler: sched}
}

func mustStart(t *testing.T, qs []question.Question, opts quiz.Options) *quiz.Session {
	t.Helper()
	s, err := quiz.Start(qs, opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStartEmptyBank(t *testing.T) {
	s, err := quiz.Start(nil, quiz.Options{})
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if s != nil {
		t.Error("expected no session for an empty bank")
	}
}

func TestStartInitialState(t *testing.T) {
	s := mustStart(t, bank(3), manualOpts(&manualScheduler{}))
	st := s.Snapshot()
	if st.Status != quiz.StatusInProgress || st.CurrentIndex != 0 || st.Score != 0 || st.SelectedChoice != nil {
		t.Errorf("unexpected initial state: %+v", st)
	}
	if st.TimeRemainingSeconds != nil {
		t.Error("untimed session should not report remaining time")
	}
	if st.Current == nil {
		t.Error("expected a current question")
	}
}

func TestStartSnapshotsQuestions(t *testing.T) {
	qs := bank(2)
	s := mustStart(t, qs, manualOpts(&manualScheduler{}))
	qs[0].Prompt = "mutated"
	if got := s.Snapshot().Current.Prompt; got != "question" {
		t.Errorf("session saw caller mutation: %q", got)
	}
}

func TestAllCorrect(t *testing.T) {
	qs := bank(2)
	s := mustStart(t, qs, manualOpts(&manualScheduler{}))

	for _, q := range qs {
		if ok, err := s.Answer(q.CorrectIndex); !ok || err != nil {
			t.Fatalf("Answer = %v, %v", ok, err)
		}
		s.AdvanceOrFinish()
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	want := quiz.Result{Score: 2, Total: 2, Percent: 100, Pass: true}
	if res != want {
		t.Errorf("Result = %+v, want %+v", res, want)
	}
}

func TestSixOfTenFails(t *testing.T) {
	qs := bank(10)
	s := mustStart(t, qs, manualOpts(&manualScheduler{}))

	for i, q := range qs {
		choice := q.CorrectIndex
		if i >= 6 {
			choice = (q.CorrectIndex + 1) % question.ChoiceCount
		}
		s.Answer(choice)
		s.AdvanceOrFinish()
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Percent != 60 || res.Pass {
		t.Errorf("Result = %+v, want 60%% fail", res)
	}
}

func TestAnswerOncePerQuestion(t *testing.T) {
	qs := bank(2)
	s := mustStart(t, qs, manualOpts(&manualScheduler{}))

	if ok, _ := s.Answer(qs[0].CorrectIndex); !ok {
		t.Fatal("first answer rejected")
	}
	if ok, err := s.Answer(qs[0].CorrectIndex); ok || err != nil {
		t.Errorf("second answer = %v, %v; want no-op", ok, err)
	}
	if st := s.Snapshot(); st.Score != 1 {
		t.Errorf("Score = %d, want 1", st.Score)
	}
}

func TestAnswerInvalidChoice(t *testing.T) {
	s := mustStart(t, bank(1), manualOpts(&manualScheduler{}))
	if _, err := s.Answer(4); !errors.Is(err, quiz.ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
	if _, err := s.Answer(-1); !errors.Is(err, quiz.ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
}

func TestScoreNeverExceedsAnswered(t *testing.T) {
	qs := bank(5)
	s := mustStart(t, qs, manualOpts(&manualScheduler{}))

	for i := 0; i < len(qs)+2; i++ {
		st := s.Snapshot()
		bonus := 0
		if st.SelectedChoice != nil && *st.SelectedChoice == qs[st.CurrentIndex].CorrectIndex {
			bonus = 1
		}
		if st.Score > st.CurrentIndex+bonus || st.CurrentIndex+bonus > st.Total {
			t.Fatalf("invariant broken: %+v", st)
		}
		if st.Current != nil {
			s.Answer(st.Current.CorrectIndex)
			s.Answer(st.Current.CorrectIndex)
		}
		s.AdvanceOrFinish()
	}
}

func TestAdvanceIdempotentOnceComplete(t *testing.T) {
	s := mustStart(t, bank(1), manualOpts(&manualScheduler{}))
	s.Answer(0)
	s.AdvanceOrFinish()

	before := s.Snapshot()
	s.AdvanceOrFinish()
	s.AdvanceOrFinish()
	after := s.Snapshot()

	if before.Status != quiz.StatusComplete || after.Status != before.Status ||
		after.Score != before.Score || after.CurrentIndex != before.CurrentIndex {
		t.Errorf("state changed after completion: before %+v after %+v", before, after)
	}
	if ok, _ := s.Answer(0); ok {
		t.Error("answer accepted on a complete session")
	}
}

func TestResultBeforeComplete(t *testing.T) {
	s := mustStart(t, bank(2), manualOpts(&manualScheduler{}))
	if _, err := s.Result(); !errors.Is(err, quiz.ErrNotComplete) {
		t.Errorf("err = %v, want ErrNotComplete", err)
	}
}

func TestManualAdvanceWithoutAnswer(t *testing.T) {
	s := mustStart(t, bank(2), manualOpts(&manualScheduler{}))
	s.AdvanceOrFinish()
	st := s.Snapshot()
	if st.CurrentIndex != 1 || st.SelectedChoice != nil || st.Score != 0 {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestAutoAdvance(t *testing.T) {
	sched := &manualScheduler{}
	qs := bank(2)
	s := mustStart(t, qs, quiz.Options{Advance: quiz.AdvanceAuto, Scheduler: sched})

	s.Answer(qs[0].CorrectIndex)
	if st := s.Snapshot(); st.CurrentIndex != 0 || st.SelectedChoice == nil {
		t.Fatalf("advanced before the delay elapsed: %+v", st)
	}

	sched.Run()
	st := s.Snapshot()
	if st.CurrentIndex != 1 || st.SelectedChoice != nil {
		t.Fatalf("auto-advance did not move on: %+v", st)
	}

	s.Answer(qs[1].CorrectIndex)
	sched.Run()
	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Score != 2 || !res.Pass {
		t.Errorf("Result = %+v", res)
	}
}

func TestAutoAdvanceIgnoredAfterManualAdvance(t *testing.T) {
	sched := &manualScheduler{}
	s := mustStart(t, bank(3), quiz.Options{Advance: quiz.AdvanceAuto, Scheduler: sched})

	s.Answer(0)
	s.AdvanceOrFinish()
	sched.Run()

	if st := s.Snapshot(); st.CurrentIndex != 1 {
		t.Errorf("stale advance applied: index %d, want 1", st.CurrentIndex)
	}
}

func TestTimedExpiry(t *testing.T) {
	timer := &manualTimer{}
	var summaries []quiz.Summary
	s := mustStart(t, bank(4), quiz.Options{
		Timed:           true,
		DurationSeconds: 5,
		Advance:         quiz.AdvanceManual,
		NewTimer:        func() quiz.Timer { return timer },
		Scheduler:       &manualScheduler{},
		OnComplete:      func(sum quiz.Summary) { summaries = append(summaries, sum) },
	})

	if st := s.Snapshot(); st.TimeRemainingSeconds == nil || *st.TimeRemainingSeconds != 5 {
		t.Fatalf("remaining = %v, want 5", st.TimeRemainingSeconds)
	}

	for i := 0; i < 4; i++ {
		timer.Tick()
	}
	if st := s.Snapshot(); st.Status != quiz.StatusInProgress || *st.TimeRemainingSeconds != 1 {
		t.Fatalf("after 4 ticks: %+v", st)
	}

	timer.Tick()
	st := s.Snapshot()
	if st.Status != quiz.StatusComplete || !st.TimedOut {
		t.Fatalf("after 5 ticks: %+v", st)
	}
	if *st.TimeRemainingSeconds != 0 {
		t.Errorf("remaining = %d, want 0", *st.TimeRemainingSeconds)
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Score != 0 || res.Total != 4 {
		t.Errorf("Result = %+v", res)
	}

	timer.Tick()
	if timer.fired != 1 {
		t.Errorf("expiry fired %d times, want 1", timer.fired)
	}
	if len(summaries) != 1 || !summaries[0].TimedOut {
		t.Errorf("OnComplete calls = %+v", summaries)
	}
}

func TestSyncClockCompletesOverdueSession(t *testing.T) {
	timer := &manualTimer{}
	var summaries []quiz.Summary
	s := mustStart(t, bank(3), quiz.Options{
		Timed:           true,
		DurationSeconds: 60,
		Advance:         quiz.AdvanceManual,
		NewTimer:        func() quiz.Timer { return timer },
		OnComplete:      func(sum quiz.Summary) { summaries = append(summaries, sum) },
	})

	s.SyncClock()
	if st := s.Snapshot(); st.Status != quiz.StatusInProgress {
		t.Fatalf("session with time left completed: %+v", st)
	}

	// The deadline passed while no tick was delivered.
	timer.mu.Lock()
	timer.remaining = 0
	timer.mu.Unlock()

	if st := s.Snapshot(); *st.TimeRemainingSeconds != 0 {
		t.Errorf("snapshot remaining = %d, want 0", *st.TimeRemainingSeconds)
	}
	s.SyncClock()
	s.SyncClock()

	st := s.Snapshot()
	if st.Status != quiz.StatusComplete || !st.TimedOut {
		t.Fatalf("overdue session not expired: %+v", st)
	}
	if len(summaries) != 1 {
		t.Errorf("OnComplete calls = %d, want 1", len(summaries))
	}
}

func TestTimeExpireKeepsEarlierScore(t *testing.T) {
	timer := &manualTimer{}
	qs := bank(3)
	s := mustStart(t, qs, quiz.Options{
		Timed:           true,
		DurationSeconds: 60,
		Advance:         quiz.AdvanceManual,
		NewTimer:        func() quiz.Timer { return timer },
	})

	s.Answer(qs[0].CorrectIndex)
	s.AdvanceOrFinish()
	s.TimeExpire()

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Score != 1 || res.Total != 3 || res.Percent != 33 {
		t.Errorf("Result = %+v", res)
	}
	if timer.cancels != 1 {
		t.Errorf("timer cancels = %d, want 1", timer.cancels)
	}
}

func TestTimeExpireIgnoredWhenUntimed(t *testing.T) {
	s := mustStart(t, bank(2), manualOpts(&manualScheduler{}))
	s.TimeExpire()
	if st := s.Snapshot(); st.Status != quiz.StatusInProgress {
		t.Errorf("untimed session expired: %+v", st)
	}
}

func TestFinishCancelsTimer(t *testing.T) {
	timer := &manualTimer{}
	s := mustStart(t, bank(1), quiz.Options{
		Timed:           true,
		DurationSeconds: 30,
		Advance:         quiz.AdvanceManual,
		NewTimer:        func() quiz.Timer { return timer },
	})
	s.Answer(0)
	s.AdvanceOrFinish()

	if timer.armed {
		t.Error("timer still armed after the session completed")
	}
}

func TestCloseIgnoresLateTicks(t *testing.T) {
	timer := &manualTimer{}
	s, err := quiz.Start(bank(2), quiz.Options{
		Timed:           true,
		DurationSeconds: 1,
		NewTimer:        func() quiz.Timer { return timer },
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Close()
	s.Close()

	if timer.armed {
		t.Fatal("Close left the timer armed")
	}
	timer.onExpire()
	if st := s.Snapshot(); st.Status != quiz.StatusInProgress {
		t.Errorf("closed session reacted to expiry: %+v", st)
	}
}

func TestReset(t *testing.T) {
	var timers []*manualTimer
	opts := quiz.Options{
		Timed:           true,
		DurationSeconds: 10,
		Advance:         quiz.AdvanceManual,
		NewTimer: func() quiz.Timer {
			tm := &manualTimer{}
			timers = append(timers, tm)
			return tm
		},
	}
	qs := bank(2)
	s := mustStart(t, qs, opts)
	s.Answer(qs[0].CorrectIndex)
	s.AdvanceOrFinish()
	s.AdvanceOrFinish()

	before, _ := s.Result()

	fresh, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	defer fresh.Close()

	st := fresh.Snapshot()
	if st.Status != quiz.StatusInProgress || st.CurrentIndex != 0 || st.Score != 0 || *st.TimeRemainingSeconds != 10 {
		t.Errorf("reset state: %+v", st)
	}
	if after, _ := s.Result(); after != before {
		t.Errorf("old session mutated: %+v -> %+v", before, after)
	}
	if len(timers) != 2 || timers[0].armed || !timers[1].armed {
		t.Errorf("expected old timer released and a new one armed")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		score, total int
		percent      int
		pass         bool
	}{
		{7, 10, 70, true},
		{69, 100, 69, false},
		{2, 3, 67, false},
		{1, 8, 13, false},
		{0, 5, 0, false},
		{5, 5, 100, true},
	}
	for _, tt := range tests {
		got := quiz.Score(tt.score, tt.total)
		if got.Percent != tt.percent || got.Pass != tt.pass || got.Total != tt.total {
			t.Errorf("Score(%d, %d) = %+v", tt.score, tt.total, got)
		}
	}
}
