package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Normalize maps an arbitrary decoded JSON value to a fully-defaulted
// Annotation. It is total: nil, scalars, arrays and partially-shaped objects
// all come back as a valid record with empty collections, never an error.
// Annotation files are frequently incomplete, so every field is optional.
func Normalize(raw any) Annotation {
	doc, _ := raw.(map[string]any)
	return Annotation{
		Meta:    normalizeMeta(doc["meta"]),
		Items:   normalizeItems(doc["items"]),
		Quiz:    normalizeQuiz(doc["quiz"]),
		UIHints: normalizeUIHints(doc["ui_hints"]),
	}
}

func normalizeMeta(v any) Meta {
	m, _ := v.(map[string]any)
	return Meta{
		Mode:    toStr(m["mode"]),
		Type:    toStr(m["type"]),
		TitleEN: toStr(m["title_en"]),
	}
}

func normalizeItems(v any) Items {
	m, _ := v.(map[string]any)
	return Items{
		Grammar:      toStudyItems(m["grammar"]),
		Vocab:        toStudyItems(m["vocab"]),
		Conversation: toStudyItems(m["conversation"]),
		KeyPhrases:   toStudyItems(m["key_phrases"]),
	}
}

func toStudyItems(v any) []StudyItem {
	arr, ok := v.([]any)
	if !ok {
		return []StudyItem{}
	}
	out := make([]StudyItem, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, StudyItem(m))
		}
	}
	return out
}

func normalizeQuiz(v any) []QuizItem {
	arr, ok := v.([]any)
	if !ok {
		return []QuizItem{}
	}
	out := make([]QuizItem, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, QuizItem{
			ID:       toStr(m["id"]),
			Targets:  toIDSlice(m["targets"]),
			Type:     toStr(m["type"]),
			PromptEN: toStr(m["prompt_en"]),
			Payload:  toMap(m["payload"]),
			Answer:   toMap(m["answer"]),
		})
	}
	return out
}

func normalizeUIHints(v any) UIHints {
	m, _ := v.(map[string]any)
	h := UIHints{
		RecommendedOrder: toIDSlice(m["recommended_order"]),
		ShowFirst:        toStr(m["show_first"]),
	}
	if b, ok := m["explain_on_fail"].(bool); ok {
		h.ExplainOnFail = &b
	}
	return h
}

// toStr renders string-or-number ids and fields as strings; anything else
// becomes the empty string.
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

// toIDSlice accepts arrays of string-or-number ids and drops everything else.
func toIDSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s := toStr(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// NormalizeID trims and renders a loose id value the way quiz targets are
// compared: stringified and whitespace-trimmed.
func NormalizeID(v any) string {
	return strings.TrimSpace(toStr(v))
}
