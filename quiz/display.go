package quiz

import "strings"

// pairListing renders the full pair set as "left → right" entries joined
// with " | ", matching the per-pair feedback format.
func pairListing(pairs []Pair) string {
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, p.Left+" → "+p.Right)
	}
	return strings.Join(lines, " | ")
}

// CorrectText derives the post-answer feedback text for a question by a
// fixed priority order per type. UI only, never consulted for grading.
func CorrectText(q Question, resp any) string {
	options, _ := q.Payload["options"].([]any)
	if ci, ok := numeric(q.Answer["correct_index"]); ok && ci >= 0 && ci < len(options) {
		return toStr(options[ci])
	}

	if q.Type == "match" {
		pairs := Pairs(q.Payload)
		if len(pairs) == 0 {
			return ""
		}
		picked := matchResponse(resp)
		var missed []string
		for i, p := range pairs {
			if picked[i] == p.Right {
				continue
			}
			msg := p.Left + " → " + p.Right
			if picked[i] != "" {
				msg += " (you picked " + picked[i] + ")"
			}
			missed = append(missed, msg)
		}
		if len(missed) == 0 {
			return pairListing(pairs)
		}
		return strings.Join(missed, " | ")
	}

	if s := toStr(q.Answer["correct_text"]); s != "" {
		return s
	}
	if s := toStr(q.Payload["blanked"]); s != "" {
		return s
	}
	if pairs := Pairs(q.Payload); len(pairs) > 0 {
		return pairListing(pairs)
	}
	return ""
}

// FormatUserAnswer renders a recorded response for the finish summary.
func FormatUserAnswer(q Question, resp any) string {
	switch {
	case q.Type == "cloze":
		if s := toStr(resp); s != "" {
			return s
		}
		return "No answer"
	case q.Type == "match":
		pairs := Pairs(q.Payload)
		if len(pairs) == 0 {
			return "No answer"
		}
		picked := matchResponse(resp)
		lines := make([]string, 0, len(pairs))
		for i, p := range pairs {
			choice := picked[i]
			if choice == "" {
				choice = "—"
			}
			lines = append(lines, p.Left+" → "+choice)
		}
		return strings.Join(lines, " | ")
	}

	if n, ok := numeric(resp); ok && (isChoiceType(q.Type) || q.Type == "unknown" || q.Type == "") {
		if options, _ := q.Payload["options"].([]any); n >= 0 && n < len(options) {
			return toStr(options[n])
		}
		return "Option " + toStr(n)
	}
	if s := toStr(resp); s != "" {
		return s
	}
	return "No answer"
}
