package catalog

import (
	"errors"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"quizzer-backend/logging"
)

// ErrNotFound is returned by Get for unknown entry ids.
var ErrNotFound = errors.New("entry not found")

// Service is the read-only query surface over the catalog. Reload swaps a
// complete snapshot atomically, so in-flight readers never observe a
// half-populated index.
type Service struct {
	builder *Builder
	log     *logging.Logger

	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	entries   map[string]*Entry
	summaries []Summary
}

func NewService(root string, log *logging.Logger) *Service {
	return &Service{
		builder: NewBuilder(root, log),
		log:     log,
		snap:    &snapshot{entries: map[string]*Entry{}, summaries: []Summary{}},
	}
}

// Reload rebuilds the catalog from disk and swaps it in. Returns the number
// of entries in the new snapshot.
func (s *Service) Reload() int {
	entries := s.builder.Build()
	next := &snapshot{
		entries:   entries,
		summaries: summarize(entries),
	}
	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return len(entries)
}

func (s *Service) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// List returns entry summaries sorted by title, case-insensitively and
// locale-aware. The slice is shared with the snapshot and must not be
// mutated by callers.
func (s *Service) List() []Summary {
	return s.current().summaries
}

// Get returns the full entry for an id, or ErrNotFound.
func (s *Service) Get(id string) (*Entry, error) {
	if e, ok := s.current().entries[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// Len reports the number of entries in the active snapshot.
func (s *Service) Len() int {
	return len(s.current().entries)
}

// summarize projects and orders the listing view once per reload.
func summarize(entries map[string]*Entry) []Summary {
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, Summary{
			ID:       e.ID,
			Title:    e.Title,
			Mode:     e.Meta.Mode,
			Type:     e.Meta.Type,
			Counts:   e.Counts,
			VideoURL: e.VideoURL,
		})
	}
	col := collate.New(language.English, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Title, out[j].Title); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
