package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"quizzer-backend/catalog"
	"quizzer-backend/logging"
	"quizzer-backend/quiz"
)

// State is the authoritative lifecycle value of a session. All transitions
// go through the methods below; no state is inferred from flag combinations.
type State string

const (
	StateSetup    State = "setup"
	StateLoading  State = "loading"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

var (
	ErrNoEntries      = errors.New("no entries selected")
	ErrEmptyPool      = errors.New("no quiz questions found in the selected entries")
	ErrBusy           = errors.New("session is already loading")
	ErrNotRunning     = errors.New("session is not running")
	ErrNotFinished    = errors.New("session is not finished")
	ErrNotSubmittable = errors.New("response is not complete enough to submit")
	ErrNotAnswered    = errors.New("question has not been answered")
)

// EntryFetcher supplies full entries for the ids a session was started with.
type EntryFetcher interface {
	Entry(ctx context.Context, id string) (*catalog.Entry, error)
}

// Record is one slot of the per-question history arena. A non-nil record
// means the question is locked: revisits re-display it without re-grading.
type Record struct {
	Response        any  `json:"response"`
	Correct         bool `json:"correct"`
	Skipped         bool `json:"skipped"`
	ShowExplanation bool `json:"show_explanation"`
}

// Session runs one pool of questions from setup to finished. The history
// buffer is indexed by question position and sized at pool assembly.
type Session struct {
	ID string

	fetcher EntryFetcher
	rng     *rand.Rand
	log     *logging.Logger

	mu        sync.Mutex
	state     State
	entryIDs  []string
	questions []quiz.Question
	history   []*Record
	index     int
	score     int
}

func New(id string, entryIDs []string, fetcher EntryFetcher, rng *rand.Rand, log *logging.Logger) *Session {
	return &Session{
		ID:       id,
		fetcher:  fetcher,
		rng:      rng,
		log:      log,
		state:    StateSetup,
		entryIDs: dedupe(entryIDs),
	}
}

// Start moves setup → loading → running. It also serves as the play-again
// transition out of finished: a fresh pool is assembled from the same
// selection. A second start while a load is outstanding is a no-op error,
// and any assembly failure reverts to setup so the session never sticks in
// loading.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return ErrBusy
	}
	if len(s.entryIDs) == 0 {
		s.mu.Unlock()
		return ErrNoEntries
	}
	s.state = StateLoading
	ids := append([]string(nil), s.entryIDs...)
	s.mu.Unlock()

	entries := make([]*catalog.Entry, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			e, err := s.fetcher.Entry(gctx, id)
			if err != nil {
				return fmt.Errorf("fetch entry %s: %w", id, err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.revert()
		return err
	}

	pool := quiz.Assemble(entries, s.rng)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(pool) == 0 {
		s.state = StateSetup
		return ErrEmptyPool
	}
	s.questions = pool
	s.history = make([]*Record, len(pool))
	s.index = 0
	s.score = 0
	s.state = StateRunning
	s.log.Info("session started", "session", s.ID, "entries", len(ids), "questions", len(pool))
	return nil
}

func (s *Session) revert() {
	s.mu.Lock()
	s.state = StateSetup
	s.mu.Unlock()
}

// Submit grades the current question. Grading is idempotent: an
// already-answered question returns its stored record untouched. A skip is
// recorded without scoring. Incomplete responses are rejected before
// grading (the UI-level eligibility gate).
func (s *Session) Submit(resp any, skip bool) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return nil, ErrNotRunning
	}
	if rec := s.history[s.index]; rec != nil {
		return rec, nil
	}
	q := s.questions[s.index]
	if !skip && !quiz.Submittable(q, resp) {
		return nil, ErrNotSubmittable
	}
	correct := false
	if !skip {
		correct = quiz.Grade(q, resp)
	}
	if correct {
		s.score++
	}
	rec := &Record{
		Response:        resp,
		Correct:         correct,
		Skipped:         skip,
		ShowExplanation: !correct,
	}
	s.history[s.index] = rec
	return rec, nil
}

// Next advances to the following question, or to finished past the last one.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	if s.index+1 >= len(s.questions) {
		s.state = StateFinished
	} else {
		s.index++
	}
	return nil
}

// Prev moves back one question, clamped at the first. The revisited
// question's stored record is what the view re-displays.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Back re-enters running from finished at the last question, history intact.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFinished {
		return ErrNotFinished
	}
	s.state = StateRunning
	if n := len(s.questions); n > 0 {
		s.index = n - 1
	}
	return nil
}

// RevealExplanation marks the current answered question's explanation as
// shown, so revisits keep it open.
func (s *Session) RevealExplanation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	rec := s.history[s.index]
	if rec == nil {
		return ErrNotAnswered
	}
	rec.ShowExplanation = true
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
