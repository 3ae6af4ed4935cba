package session

import "quizzer-backend/quiz"

// View is the serialized shape of a session for the presentation layer.
// Only the current question travels with it; the finish summary carries the
// per-question verdicts.
type View struct {
	ID          string           `json:"id"`
	State       State            `json:"state"`
	Total       int              `json:"total"`
	Index       int              `json:"index"`
	Score       int              `json:"score"`
	Question    *quiz.Question   `json:"question,omitempty"`
	Record      *Record          `json:"record,omitempty"`
	CorrectText string           `json:"correct_text,omitempty"`
	Targets     []quiz.TargetHit `json:"targets,omitempty"`
	Summary     *Summary         `json:"summary,omitempty"`
}

// Summary is the finish screen payload.
type Summary struct {
	Correct   int           `json:"correct"`
	Wrong     int           `json:"wrong"`
	Skipped   int           `json:"skipped"`
	Questions []SummaryItem `json:"questions"`
}

// SummaryItem mirrors one question row of the finish list. Status is one of
// correct, wrong, skipped; an unvisited question counts as wrong.
type SummaryItem struct {
	Prompt      string `json:"prompt"`
	EntryID     string `json:"entry_id"`
	EntryTitle  string `json:"entry_title"`
	Status      string `json:"status"`
	UserText    string `json:"user_text"`
	CorrectText string `json:"correct_text"`
}

// View renders the session's current state. Answered questions come back
// with their stored record, feedback text and (when the explanation is
// open) resolved target items.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:    s.ID,
		State: s.state,
		Total: len(s.questions),
		Index: s.index,
		Score: s.score,
	}

	switch s.state {
	case StateRunning:
		q := s.questions[s.index]
		v.Question = &q
		if rec := s.history[s.index]; rec != nil {
			v.Record = rec
			v.CorrectText = quiz.CorrectText(q, rec.Response)
			if rec.ShowExplanation {
				v.Targets = quiz.ResolveTargets(q)
			}
		}
	case StateFinished:
		v.Summary = s.summaryLocked()
	}
	return v
}

func (s *Session) summaryLocked() *Summary {
	sum := &Summary{Questions: make([]SummaryItem, 0, len(s.questions))}
	for i, q := range s.questions {
		rec := s.history[i]
		status := "wrong"
		var resp any
		userText := "No answer"
		switch {
		case rec != nil && rec.Skipped:
			status = "skipped"
		case rec != nil && rec.Correct:
			status = "correct"
		}
		if rec != nil {
			resp = rec.Response
			userText = quiz.FormatUserAnswer(q, resp)
		}
		switch status {
		case "correct":
			sum.Correct++
		case "skipped":
			sum.Skipped++
		default:
			sum.Wrong++
		}
		sum.Questions = append(sum.Questions, SummaryItem{
			Prompt:      q.PromptEN,
			EntryID:     q.EntryID,
			EntryTitle:  q.EntryTitle,
			Status:      status,
			UserText:    userText,
			CorrectText: quiz.CorrectText(q, resp),
		})
	}
	return sum
}
