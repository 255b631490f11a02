package quiz

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

// PassPercent is the inclusive pass mark shared by module quizzes, the core exam and the final.
const PassPercent = 70

var (
	ErrNoQuestions   = errors.New("no questions available")
	ErrNotComplete   = errors.New("session is not complete")
	ErrInvalidChoice = errors.New("choice out of range")
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

type AdvanceMode string

const (
	// AdvanceAuto moves to the next question by itself once an answer has been shown
	// for AdvanceDelay.
	AdvanceAuto AdvanceMode = "auto"
	// AdvanceManual waits for an explicit AdvanceOrFinish, as the final exam's Next button does.
	AdvanceManual AdvanceMode = "manual"
)

type Options struct {
	Timed           bool
	DurationSeconds int
	Advance         AdvanceMode
	AdvanceDelay    time.Duration

	NewTimer  func() Timer
	Scheduler Scheduler

	// OnComplete runs once, outside the session lock, when the session reaches complete.
	OnComplete func(Summary)
}

func (o Options) withDefaults() Options {
	if o.Advance == "" {
		o.Advance = AdvanceAuto
	}
	if o.DurationSeconds < 0 {
		o.DurationSeconds = 0
	}
	if o.NewTimer == nil {
		o.NewTimer = func() Timer { return NewCountdown(time.Second) }
	}
	if o.Scheduler == nil {
		o.Scheduler = clockScheduler{}
	}
	return o
}

type Result struct {
	Score   int  `json:"score"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
	Pass    bool `json:"pass"`
}

type Summary struct {
	Result
	TimedOut bool
}

// State is a point-in-time copy of a session.
type State struct {
	CurrentIndex         int
	Total                int
	Current              *question.Question
	SelectedChoice       *int
	Score                int
	Status               Status
	Timed                bool
	DurationSeconds      int
	TimeRemainingSeconds *int
	TimedOut             bool
	Advance              AdvanceMode
}

// Session is one run through a fixed question list. The timer goroutine, a pending
// auto-advance and request handlers may all reach it, so every field sits behind mu.
type Session struct {
	mu sync.Mutex

	questions []question.Question
	opts      Options

	currentIndex   int
	selectedChoice *int
	score          int
	status         Status
	timedOut       bool
	remaining      *int

	timer         Timer
	cancelAdvance func()
	closed        bool
	notified      bool
}

// Start snapshots questions and begins a session. An empty list yields ErrNoQuestions,
// which callers present as "no questions available" rather than as a failure.
func Start(questions []question.Question, opts Options) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	opts = opts.withDefaults()

	s := &Session{
		questions: append([]question.Question(nil), questions...),
		opts:      opts,
		status:    StatusInProgress,
	}

	if opts.Timed {
		remaining := opts.DurationSeconds
		s.remaining = &remaining
		s.timer = opts.NewTimer()
		s.timer.Arm(opts.DurationSeconds, s.onTick, s.expireFromTimer)
	}
	return s, nil
}

// Answer records choice for the current question. Only the first answer per question
// counts; later calls, and calls on a finished session, return false without error.
func (s *Session) Answer(choice int) (bool, error) {
	if choice < 0 || choice >= question.ChoiceCount {
		return false, ErrInvalidChoice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.status != StatusInProgress || s.selectedChoice != nil {
		return false, nil
	}

	c := choice
	s.selectedChoice = &c
	if choice == s.questions[s.currentIndex].CorrectIndex {
		s.score++
	}

	if s.opts.Advance == AdvanceAuto {
		idx := s.currentIndex
		s.cancelAdvance = s.opts.Scheduler.AfterFunc(s.opts.AdvanceDelay, func() {
			s.advanceFrom(idx)
		})
	}
	return true, nil
}

// AdvanceOrFinish moves to the next question, or completes the session after the last
// one. It does nothing once the session is complete.
func (s *Session) AdvanceOrFinish() {
	s.mu.Lock()
	completed := s.advanceLocked()
	s.mu.Unlock()

	if completed {
		s.finish(true)
	}
}

// TimeExpire ends a timed session immediately. The question on screen stays unscored.
func (s *Session) TimeExpire() {
	if s.expire() {
		s.finish(true)
	}
}

func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusComplete {
		return Result{}, ErrNotComplete
	}
	return s.resultLocked(), nil
}

// Reset discards s and starts a new session over the same questions and options.
// Question order is kept; reshuffling is up to the caller.
func (s *Session) Reset() (*Session, error) {
	s.Close()

	s.mu.Lock()
	questions, opts := s.questions, s.opts
	s.mu.Unlock()

	return Start(questions, opts)
}

// Close releases the timer and any pending auto-advance. It is safe to call repeatedly.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopAdvanceLocked()
	timer := s.timer
	s.mu.Unlock()

	if timer != nil {
		timer.Cancel()
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		CurrentIndex:    s.currentIndex,
		Total:           len(s.questions),
		Score:           s.score,
		Status:          s.status,
		Timed:           s.opts.Timed,
		DurationSeconds: s.opts.DurationSeconds,
		TimedOut:        s.timedOut,
		Advance:         s.opts.Advance,
	}
	if s.status == StatusInProgress {
		q := s.questions[s.currentIndex]
		st.Current = &q
	}
	if s.selectedChoice != nil {
		c := *s.selectedChoice
		st.SelectedChoice = &c
	}
	if s.remaining != nil {
		r := *s.remaining
		if s.timer != nil && s.status == StatusInProgress && !s.closed {
			if live := s.timer.Remaining(); live < r {
				r = live
			}
		}
		st.TimeRemainingSeconds = &r
	}
	return st
}

// SyncClock completes a timed session whose deadline has passed before the timer got
// to deliver its expiry, as happens when the process was paused.
func (s *Session) SyncClock() {
	s.mu.Lock()
	timer := s.timer
	live := s.opts.Timed && timer != nil && s.status == StatusInProgress && !s.closed
	s.mu.Unlock()

	if live && timer.Remaining() == 0 {
		s.TimeExpire()
	}
}

func (s *Session) advanceFrom(idx int) {
	s.mu.Lock()
	if s.closed || s.status != StatusInProgress || s.currentIndex != idx || s.selectedChoice == nil {
		s.mu.Unlock()
		return
	}
	completed := s.advanceLocked()
	s.mu.Unlock()

	if completed {
		s.finish(true)
	}
}

func (s *Session) advanceLocked() bool {
	if s.status != StatusInProgress {
		return false
	}
	s.stopAdvanceLocked()

	if s.currentIndex+1 < len(s.questions) {
		s.currentIndex++
		s.selectedChoice = nil
		return false
	}
	s.status = StatusComplete
	return true
}

func (s *Session) expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opts.Timed || s.status != StatusInProgress || s.closed {
		return false
	}
	s.stopAdvanceLocked()
	s.status = StatusComplete
	s.timedOut = true
	if s.remaining != nil {
		*s.remaining = 0
	}
	return true
}

// expireFromTimer runs on the timer goroutine, which has already stopped ticking.
func (s *Session) expireFromTimer() {
	if s.expire() {
		s.finish(false)
	}
}

func (s *Session) onTick(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.status != StatusInProgress || s.remaining == nil {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	*s.remaining = remaining
}

func (s *Session) stopAdvanceLocked() {
	if s.cancelAdvance != nil {
		s.cancelAdvance()
		s.cancelAdvance = nil
	}
}

func (s *Session) finish(stopTimer bool) {
	s.mu.Lock()
	timer := s.timer
	notify := !s.notified && s.opts.OnComplete != nil
	s.notified = true
	summary := Summary{Result: s.resultLocked(), TimedOut: s.timedOut}
	s.mu.Unlock()

	if stopTimer && timer != nil {
		timer.Cancel()
	}
	if notify {
		s.opts.OnComplete(summary)
	}
}

func (s *Session) resultLocked() Result {
	return Score(s.score, len(s.questions))
}

// Score turns a raw count into the reported percentage and pass verdict.
func Score(score, total int) Result {
	if total <= 0 {
		return Result{Score: score}
	}
	percent := int(math.Round(100 * float64(score) / float64(total)))
	return Result{
		Score:   score,
		Total:   total,
		Percent: percent,
		Pass:    percent >= PassPercent,
	}
}
