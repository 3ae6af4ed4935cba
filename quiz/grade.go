package quiz

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"quizzer-backend/catalog"
)

// Pair is one left/right matching unit of a match question payload.
type Pair struct {
	Left  string
	Right string
}

// Grade reports whether a user response answers the question correctly.
// It is pure: no side effects, deterministic for identical inputs.
func Grade(q Question, resp any) bool {
	switch {
	case isChoiceType(q.Type):
		return gradeChoice(q, resp)
	case q.Type == "cloze":
		return gradeCloze(q, resp)
	case q.Type == "match":
		return gradeMatch(q, resp)
	default:
		// Untyped or unknown questions that carry a numeric correct index
		// grade like multiple choice.
		if _, ok := numeric(q.Answer["correct_index"]); ok {
			return gradeChoice(q, resp)
		}
		return false
	}
}

func isChoiceType(t string) bool {
	return strings.HasPrefix(t, "mc") || t == "choose_best_reply"
}

// gradeChoice: correct iff the response is the number stored as the correct
// index. Non-numeric responses and questions without a correct index are
// incorrect.
func gradeChoice(q Question, resp any) bool {
	r, ok := numeric(resp)
	if !ok {
		return false
	}
	ci, ok := numeric(q.Answer["correct_index"])
	if !ok {
		return false
	}
	return r == ci
}

// gradeCloze: trimmed response equals (case-insensitively) any non-empty
// candidate of answer.correct_text, answer.correct, payload.blanked.
func gradeCloze(q Question, resp any) bool {
	answer := strings.TrimSpace(toStr(resp))
	if answer == "" {
		return false
	}
	candidates := []any{q.Answer["correct_text"], q.Answer["correct"], q.Payload["blanked"]}
	for _, c := range candidates {
		expected := strings.TrimSpace(toStr(c))
		if expected == "" {
			continue
		}
		if expected == answer || strings.EqualFold(expected, answer) {
			return true
		}
	}
	return false
}

// gradeMatch: every pair index must carry the pair's right-hand value,
// trimmed-exact. A payload with zero pairs is defined as incorrect.
func gradeMatch(q Question, resp any) bool {
	pairs := Pairs(q.Payload)
	if len(pairs) == 0 {
		return false
	}
	picked := matchResponse(resp)
	for i, p := range pairs {
		if strings.TrimSpace(p.Right) != strings.TrimSpace(picked[i]) {
			return false
		}
	}
	return true
}

// Submittable is the UI-level gate deciding whether a response is complete
// enough to submit. It is not a grading outcome: an eligible response can
// still be wrong.
func Submittable(q Question, resp any) bool {
	switch {
	case q.Type == "cloze":
		return strings.TrimSpace(toStr(resp)) != ""
	case q.Type == "match":
		pairs := Pairs(q.Payload)
		if len(pairs) == 0 {
			return false
		}
		picked := matchResponse(resp)
		for i := range pairs {
			if strings.TrimSpace(picked[i]) == "" {
				return false
			}
		}
		return true
	case isChoiceType(q.Type):
		_, ok := numeric(resp)
		return ok
	default:
		return true
	}
}

// Pairs extracts the ordered left/right pairs of a match payload. Entries
// that are not objects are dropped.
func Pairs(payload map[string]any) []Pair {
	arr, ok := payload["pairs"].([]any)
	if !ok {
		return nil
	}
	out := make([]Pair, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Pair{Left: toStr(m["left"]), Right: toStr(m["right"])})
	}
	return out
}

// matchResponse coerces the various shapes a match response arrives in
// (JSON object keyed by stringified indexes, or an index map built in
// process) into an index-to-choice map.
func matchResponse(resp any) map[int]string {
	switch m := resp.(type) {
	case map[int]string:
		return m
	case map[string]string:
		out := make(map[int]string, len(m))
		for k, v := range m {
			if i, err := strconv.Atoi(strings.TrimSpace(k)); err == nil {
				out[i] = v
			}
		}
		return out
	case map[string]any:
		out := make(map[int]string, len(m))
		for k, v := range m {
			if i, err := strconv.Atoi(strings.TrimSpace(k)); err == nil {
				out[i] = toStr(v)
			}
		}
		return out
	default:
		return map[int]string{}
	}
}

// numeric accepts the integer shapes a response or correct index can take
// after JSON decoding. Fractional values are not indexes.
func numeric(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toStr(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// TargetHit is a study item referenced by a question's targets, with the
// display label of the collection it came from.
type TargetHit struct {
	Group string            `json:"group"`
	Item  catalog.StudyItem `json:"item"`
}

// ResolveTargets looks up the study items a question exercises. Used for
// the post-answer explanation panel only, never for grading.
func ResolveTargets(q Question) []TargetHit {
	wanted := make(map[string]bool, len(q.Targets))
	for _, t := range q.Targets {
		if id := strings.TrimSpace(t); id != "" {
			wanted[id] = true
		}
	}
	groups := []struct {
		label string
		items []catalog.StudyItem
	}{
		{"Grammar", q.Items.Grammar},
		{"Vocabulary", q.Items.Vocab},
		{"Key Phrases", q.Items.KeyPhrases},
		{"Conversation", q.Items.Conversation},
	}
	var hits []TargetHit
	for _, g := range groups {
		for _, item := range g.items {
			if id := catalog.NormalizeID(item["id"]); id != "" && wanted[id] {
				hits = append(hits, TargetHit{Group: g.label, Item: item})
			}
		}
	}
	return hits
}
