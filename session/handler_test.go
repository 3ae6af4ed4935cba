package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"quizzer-backend/catalog"
	"quizzer-backend/logging"
)

func fixtureRouter(t *testing.T, questionsPerEntry int) (*gin.Engine, *catalog.Service) {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < 2; i++ {
		base := filepath.Join(root, fmt.Sprintf("clip%d", i))
		quiz := ""
		for j := 0; j < questionsPerEntry; j++ {
			if j > 0 {
				quiz += ","
			}
			quiz += fmt.Sprintf(`{"id": "q%d", "type": "mc_meaning", "prompt_en": "Pick one",
				"payload": {"options": ["a", "b", "c"]}, "answer": {"correct_index": 1}}`, j)
		}
		doc := fmt.Sprintf(`{"meta": {"title_en": "Clip %d"}, "quiz": [%s]}`, i, quiz)
		if err := os.WriteFile(base+".mp4", []byte("vid"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(base+".json", []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	svc := catalog.NewService(root, logging.NewNop())
	svc.Reload()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, logging.NewNop()).RegisterRoutes(r)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, View) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var v View
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return w, v
}

func TestHandler_startDefaultsToAllEntries(t *testing.T) {
	r, _ := fixtureRouter(t, 3)

	w, v := doJSON(t, r, http.MethodPost, "/api/quiz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if v.State != StateRunning || v.Total != 6 {
		t.Fatalf("expected running with 6 questions, got %+v", v)
	}
	if v.ID == "" || v.Question == nil {
		t.Fatalf("view must carry session id and current question")
	}
}

func TestHandler_startSelectedEntry(t *testing.T) {
	r, _ := fixtureRouter(t, 2)

	w, v := doJSON(t, r, http.MethodPost, "/api/quiz", map[string]any{"entry_ids": []string{"clip0"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if v.Total != 2 || v.Question.EntryID != "clip0" {
		t.Fatalf("selection not honored: %+v", v)
	}
}

func TestHandler_startEmptyPool(t *testing.T) {
	r, _ := fixtureRouter(t, 0)

	w, _ := doJSON(t, r, http.MethodPost, "/api/quiz", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_startUnknownEntry(t *testing.T) {
	r, _ := fixtureRouter(t, 2)

	w, _ := doJSON(t, r, http.MethodPost, "/api/quiz", map[string]any{"entry_ids": []string{"ghost"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_fullFlow(t *testing.T) {
	r, _ := fixtureRouter(t, 1)

	_, v := doJSON(t, r, http.MethodPost, "/api/quiz", nil)
	base := "/api/quiz/" + v.ID

	// submit an incomplete response
	w, _ := doJSON(t, r, http.MethodPost, base+"/submit", map[string]any{"response": "nope"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("non-numeric choice response: expected 422, got %d", w.Code)
	}

	// answer, advance twice, reach finished
	w, v = doJSON(t, r, http.MethodPost, base+"/submit", map[string]any{"response": v.Question.Answer["correct_index"]})
	if w.Code != http.StatusOK || v.Record == nil || !v.Record.Correct {
		t.Fatalf("submit failed: %d %+v", w.Code, v)
	}
	if v.CorrectText == "" {
		t.Fatalf("answered view should carry feedback text")
	}
	w, v = doJSON(t, r, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next: %d", w.Code)
	}
	_, v = doJSON(t, r, http.MethodPost, base+"/submit", map[string]any{"skip": true})
	if v.Record == nil || !v.Record.Skipped {
		t.Fatalf("skip should record: %+v", v)
	}
	_, v = doJSON(t, r, http.MethodPost, base+"/next", nil)
	if v.State != StateFinished || v.Summary == nil {
		t.Fatalf("expected finished summary, got %+v", v)
	}

	// back into the run, then restart for a fresh pool
	_, v = doJSON(t, r, http.MethodPost, base+"/back", nil)
	if v.State != StateRunning || v.Record == nil {
		t.Fatalf("back should restore the answered question, got %+v", v)
	}
	w, v = doJSON(t, r, http.MethodPost, base+"/restart", nil)
	if w.Code != http.StatusOK || v.Score != 0 || v.Record != nil {
		t.Fatalf("restart should reset: %d %+v", w.Code, v)
	}
}

func TestHandler_unknownSession(t *testing.T) {
	r, _ := fixtureRouter(t, 1)
	w, _ := doJSON(t, r, http.MethodGet, "/api/quiz/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
