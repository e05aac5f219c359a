package questionnaire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSnapshot = `{
  "data": [
    {"id": "snap_q1", "text": "Snapshot question?", "type": "text"}
  ]
}`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}
	return path
}

func TestLoaderFetch_RemoteCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"id": "q1", "text": "First?", "type": "select", "options": ["Yes", "No"]},
			{"id": "q2", "text": "Second?", "type": "number",
				"dependency": {"question_id": "q1", "value": "Yes"}}
		]}`))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, "does-not-exist.json", 2*time.Second)
	questions := loader.Fetch(context.Background())

	if len(questions) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(questions))
	}
	if questions[0].ID != "q1" || questions[0].Type != TypeSelect {
		t.Errorf("questions[0] = %+v, want select q1", questions[0])
	}
	dep := questions[1].Dependency
	if dep == nil || dep.QuestionID != "q1" || dep.Value != "Yes" {
		t.Errorf("questions[1].Dependency = %+v, want q1=Yes", dep)
	}
}

func TestLoaderFetch_FallsBackToSnapshotOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, writeSnapshot(t, testSnapshot), 2*time.Second)
	questions := loader.Fetch(context.Background())

	if len(questions) != 1 || questions[0].ID != "snap_q1" {
		t.Errorf("questions = %+v, want snapshot question", questions)
	}
}

func TestLoaderFetch_FallsBackToSnapshotOnMissingDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, writeSnapshot(t, testSnapshot), 2*time.Second)
	questions := loader.Fetch(context.Background())

	if len(questions) != 1 || questions[0].ID != "snap_q1" {
		t.Errorf("questions = %+v, want snapshot question", questions)
	}
}

func TestLoaderFetch_FallsBackToSnapshotOnUnreachableEndpoint(t *testing.T) {
	loader := NewLoader("http://127.0.0.1:1/questions", writeSnapshot(t, testSnapshot), 200*time.Millisecond)
	questions := loader.Fetch(context.Background())

	if len(questions) != 1 || questions[0].ID != "snap_q1" {
		t.Errorf("questions = %+v, want snapshot question", questions)
	}
}

func TestLoaderFetch_EmptyWhenAllSourcesFail(t *testing.T) {
	loader := NewLoader("http://127.0.0.1:1/questions", filepath.Join(t.TempDir(), "missing.json"), 200*time.Millisecond)
	if questions := loader.Fetch(context.Background()); len(questions) != 0 {
		t.Errorf("questions = %+v, want empty", questions)
	}
}

func TestLoaderFetch_EmptyDataIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, writeSnapshot(t, testSnapshot), 2*time.Second)
	if questions := loader.Fetch(context.Background()); len(questions) != 0 {
		t.Errorf("questions = %+v, want empty without snapshot fallback", questions)
	}
}

func TestLoaderFetch_MalformedSnapshot(t *testing.T) {
	loader := NewLoader("http://127.0.0.1:1/questions", writeSnapshot(t, `not json`), 200*time.Millisecond)
	if questions := loader.Fetch(context.Background()); len(questions) != 0 {
		t.Errorf("questions = %+v, want empty", questions)
	}
}
