package quiz

import (
	"math/rand"
	"time"

	"quizzer-backend/catalog"
)

// SessionLength is the fixed number of questions offered in one session.
const SessionLength = 10

// Question is a quiz item drawn into a session pool, denormalized with its
// source entry's context so grading and explanation lookup are
// self-contained. It is a snapshot copy: mutating it never affects the
// catalog entry it came from.
type Question struct {
	catalog.QuizItem
	EntryID    string          `json:"entry_id"`
	EntryTitle string          `json:"entry_title"`
	Items      catalog.Items   `json:"items"`
	VideoURL   string          `json:"video_url"`
	IgMeta     *catalog.IgMeta `json:"ig_meta,omitempty"`
}

// Assemble flattens the quiz items of the given entries into one pool,
// shuffles presented options per question (remapping the recorded correct
// index), shuffles the pool, and truncates it to the session length.
// An empty result means the caller must surface a no-questions condition
// instead of starting a session.
func Assemble(entries []*catalog.Entry, rng *rand.Rand) []Question {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var pool []Question
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, item := range e.Quiz {
			q := Question{
				QuizItem:   item,
				EntryID:    e.ID,
				EntryTitle: e.Title,
				Items:      e.Items,
				VideoURL:   e.VideoURL,
				IgMeta:     e.IgMeta,
			}
			if q.Type == "" {
				q.Type = "unknown"
			}
			if q.Targets == nil {
				q.Targets = []string{}
			}
			shuffleQuestionOptions(&q, rng)
			pool = append(pool, q)
		}
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > SessionLength {
		pool = pool[:SessionLength]
	}
	return pool
}

// shuffleQuestionOptions permutes payload.options uniformly and moves
// answer.correct_index to the permuted position of the originally-correct
// option. An out-of-range original index is left unchanged rather than
// guessed at. Payload and answer maps are copied first so the source entry
// stays untouched.
func shuffleQuestionOptions(q *Question, rng *rand.Rand) {
	q.Payload = copyMap(q.Payload)
	q.Answer = copyMap(q.Answer)

	opts, ok := q.Payload["options"].([]any)
	if !ok || len(opts) == 0 {
		return
	}

	idx := make([]int, len(opts))
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	shuffled := make([]any, len(opts))
	newPos := make(map[int]int, len(opts))
	for pos, old := range idx {
		shuffled[pos] = opts[old]
		newPos[old] = pos
	}
	q.Payload["options"] = shuffled

	if ci, ok := numeric(q.Answer["correct_index"]); ok {
		if pos, inRange := newPos[ci]; inRange {
			q.Answer["correct_index"] = pos
		}
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
