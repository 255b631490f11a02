package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrInvalidKind     = errors.New("invalid quiz kind")
	ErrInvalidAdvance  = errors.New("advance must be auto or manual")
)

type StartRequest struct {
	Kind            Kind           `json:"kind"`
	Category        string         `json:"category"`
	Level           question.Level `json:"level"`
	Shuffle         *bool          `json:"shuffle,omitempty"`
	Advance         AdvanceMode    `json:"advance,omitempty"`
	DurationSeconds *int           `json:"duration_seconds,omitempty"`
}

type Config struct {
	AdvanceDelay     time.Duration
	FinalExamMinutes int
	IdleTTL          time.Duration

	NewTimer  func() Timer
	Scheduler Scheduler
	Now       func() time.Time
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Answer(ctx context.Context, id uuid.UUID, choice int) (*View, error)
	Next(ctx context.Context, id uuid.UUID) (*View, error)
	Expire(ctx context.Context, id uuid.UUID) (*View, error)
	Result(ctx context.Context, id uuid.UUID) (*View, error)
	Reset(ctx context.Context, id uuid.UUID) (*View, error)
	Discard(ctx context.Context, id uuid.UUID) error
	ListAttempts(ctx context.Context, f AttemptFilter) ([]Attempt, error)
	Sweep(now time.Time) int
	Close()
}

type sessionMeta struct {
	kind     Kind
	category string
	level    question.Level
	shuffle  bool
}

type entry struct {
	session   *Session
	meta      sessionMeta
	questions []question.Question
	opts      Options
	lastSeen  time.Time
}

type service struct {
	store content.Store
	repo  AttemptRepository
	cfg   Config

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

func NewService(store content.Store, repo AttemptRepository, cfg Config) Service {
	if cfg.FinalExamMinutes <= 0 {
		cfg.FinalExamMinutes = 60
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{
		store:    store,
		repo:     repo,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*entry),
	}
}

func (s *service) Start(ctx context.Context, req StartRequest) (*View, error) {
	log := config.WithContext(ctx)

	kc, ok := kinds[req.Kind]
	if !ok {
		return nil, ErrInvalidKind
	}
	if req.Advance != "" && req.Advance != AdvanceAuto && req.Advance != AdvanceManual {
		return nil, ErrInvalidAdvance
	}
	level := question.ParseLevel(string(req.Level))

	questions := s.loadQuestions(ctx, content.QuestionFilter{
		Bank:     kc.bank,
		Category: req.Category,
		Level:    level,
	})
	if len(questions) == 0 {
		log.WithField("kind", req.Kind).WithField("category", req.Category).Info("No questions available for session")
		return nil, ErrNoQuestions
	}

	meta := sessionMeta{
		kind:     req.Kind,
		category: req.Category,
		level:    level,
		shuffle:  kc.shuffle,
	}
	if req.Shuffle != nil {
		meta.shuffle = *req.Shuffle
	}
	if meta.shuffle {
		shuffle(questions)
	}

	opts := Options{
		Advance:      kc.advance,
		AdvanceDelay: s.cfg.AdvanceDelay,
		NewTimer:     s.cfg.NewTimer,
		Scheduler:    s.cfg.Scheduler,
		OnComplete:   s.recordAttempt(meta),
	}
	if req.Advance != "" {
		opts.Advance = req.Advance
	}
	if kc.timed {
		opts.Timed = true
		opts.DurationSeconds = s.cfg.FinalExamMinutes * 60
	}
	if req.DurationSeconds != nil && *req.DurationSeconds > 0 {
		opts.Timed = true
		opts.DurationSeconds = *req.DurationSeconds
	}

	sess, err := Start(questions, opts)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	e := &entry{
		session:   sess,
		meta:      meta,
		questions: questions,
		opts:      opts,
		lastSeen:  s.cfg.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()

	log.WithField("session_id", id).WithField("kind", meta.kind).WithField("questions", len(questions)).Info("Quiz session started")
	return newView(id, meta, sess.Snapshot()), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	e, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	return newView(id, e.meta, e.session.Snapshot()), nil
}

func (s *service) Answer(ctx context.Context, id uuid.UUID, choice int) (*View, error) {
	e, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.session.Answer(choice); err != nil {
		return nil, err
	}
	return newView(id, e.meta, e.session.Snapshot()), nil
}

func (s *service) Next(ctx context.Context, id uuid.UUID) (*View, error) {
	e, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	e.session.AdvanceOrFinish()
	return newView(id, e.meta, e.session.Snapshot()), nil
}

func (s *service) Expire(ctx context.Context, id uuid.UUID) (*View, error) {
	e, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	e.session.TimeExpire()
	return newView(id, e.meta, e.session.Snapshot()), nil
}

func (s *service) Result(ctx context.Context, id uuid.UUID) (*View, error) {
	e, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.session.Result(); err != nil {
		return nil, err
	}
	return newView(id, e.meta, e.session.Snapshot()), nil
}

// Reset retires id and returns a fresh session over the same questions, reshuffled when
// the session was shuffled.
func (s *service) Reset(ctx context.Context, id uuid.UUID) (*View, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var (
		sess *Session
		err  error
	)
	questions := e.questions
	if e.meta.shuffle {
		e.session.Close()
		questions = append([]question.Question(nil), questions...)
		shuffle(questions)
		sess, err = Start(questions, e.opts)
	} else {
		sess, err = e.session.Reset()
	}
	if err != nil {
		return nil, err
	}

	newID := uuid.New()
	s.mu.Lock()
	s.sessions[newID] = &entry{
		session:   sess,
		meta:      e.meta,
		questions: questions,
		opts:      e.opts,
		lastSeen:  s.cfg.Now(),
	}
	s.mu.Unlock()

	config.WithContext(ctx).WithField("session_id", newID).WithField("previous_id", id).Info("Quiz session reset")
	return newView(newID, e.meta, sess.Snapshot()), nil
}

func (s *service) Discard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	config.WithContext(ctx).WithField("session_id", id).Info("Quiz session discarded")
	return nil
}

func (s *service) ListAttempts(ctx context.Context, f AttemptFilter) ([]Attempt, error) {
	attempts, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// Sweep drops sessions not touched within IdleTTL of now and returns how many went.
func (s *service) Sweep(now time.Time) int {
	var stale []*entry

	s.mu.Lock()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.cfg.IdleTTL {
			stale = append(stale, e)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, e := range stale {
		e.session.Close()
	}
	if len(stale) > 0 {
		config.Logger().WithField("count", len(stale)).Info("Swept idle quiz sessions")
	}
	return len(stale)
}

// RunSweeper calls Sweep on every tick of interval until ctx is done.
func RunSweeper(ctx context.Context, svc Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			svc.Sweep(now)
		}
	}
}

// Close releases every live session.
func (s *service) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[uuid.UUID]*entry)
	s.mu.Unlock()

	for _, e := range all {
		e.session.Close()
	}
}

func (s *service) touch(id uuid.UUID) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.cfg.Now()
	s.mu.Unlock()

	e.session.SyncClock()
	return e, nil
}

// loadQuestions never fails: a store error is logged and reads as an empty bank.
func (s *service) loadQuestions(ctx context.Context, f content.QuestionFilter) []question.Question {
	records, err := s.store.ListQuizQuestions(ctx, f)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("bank", f.Bank).Error("Failed to load questions")
		return nil
	}
	return question.NormalizeAll(records)
}

func (s *service) recordAttempt(meta sessionMeta) func(Summary) {
	return func(sum Summary) {
		a := &Attempt{
			Kind:        meta.kind,
			Category:    meta.category,
			Level:       meta.level,
			Score:       sum.Score,
			Total:       sum.Total,
			Percent:     sum.Percent,
			Passed:      sum.Pass,
			TimedOut:    sum.TimedOut,
			CompletedAt: s.cfg.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log := config.Logger().WithField("kind", meta.kind)
		if err := s.repo.Create(ctx, a); err != nil {
			log.WithError(err).Error("Failed to record quiz attempt")
			return
		}
		log.WithField("percent", a.Percent).WithField("passed", a.Passed).Info("Quiz attempt recorded")
	}
}

func shuffle(qs []question.Question) {
	rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}
