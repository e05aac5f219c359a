package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kubemoney/scorecard/internal/questionnaire"
)

func TestSubmit_NormalizesAnswersInPayload(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	responses := questionnaire.Responses{
		{QuestionID: "employment", Value: "1"},
		{QuestionID: "income", Value: "5000"},
	}
	submitter := NewSubmitter(srv.URL, 2*time.Second)
	err := submitter.Submit(context.Background(), scoringCatalog(), responses, 72, "Stable income")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got.Score != 72 || got.Reasoning != "Stable income" {
		t.Errorf("payload = %+v", got)
	}
	if got.Responses["employment"] != "Employed" {
		t.Errorf("responses[employment] = %q, want Employed", got.Responses["employment"])
	}
	if got.Responses["income"] != "5000" {
		t.Errorf("responses[income] = %q, want 5000", got.Responses["income"])
	}
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	submitter := NewSubmitter(srv.URL, 2*time.Second)
	if err := submitter.Submit(context.Background(), nil, nil, 10, "x"); err == nil {
		t.Fatal("Submit succeeded, want error on 502")
	}
}

func TestSubmit_UnreachableEndpoint(t *testing.T) {
	submitter := NewSubmitter("http://127.0.0.1:1/submit", 200*time.Millisecond)
	if err := submitter.Submit(context.Background(), nil, nil, 10, "x"); err == nil {
		t.Fatal("Submit succeeded, want transport error")
	}
}

func TestHTTPReasoner_ContentEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer sekrit" {
			t.Errorf("Authorization = %q", auth)
		}
		var req struct {
			System  string `json:"system"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.System == "" || req.Message == "" {
			t.Errorf("request = %+v, want system and message set", req)
		}
		_, _ = w.Write([]byte(`{"content": "{\"score\": 50, \"reasoning\": \"ok\"}"}`))
	}))
	defer srv.Close()

	reasoner := NewHTTPReasoner(srv.URL, "sekrit", 2*time.Second)
	out, err := reasoner.Reason(context.Background(), "rubric", "transcript")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if out != `{"score": 50, "reasoning": "ok"}` {
		t.Errorf("out = %q", out)
	}
}

func TestHTTPReasoner_PlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("The score is 65.\n"))
	}))
	defer srv.Close()

	reasoner := NewHTTPReasoner(srv.URL, "", 2*time.Second)
	out, err := reasoner.Reason(context.Background(), "rubric", "transcript")
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if out != "The score is 65." {
		t.Errorf("out = %q", out)
	}
}

func TestHTTPReasoner_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	reasoner := NewHTTPReasoner(srv.URL, "", 2*time.Second)
	if _, err := reasoner.Reason(context.Background(), "rubric", "transcript"); err == nil {
		t.Fatal("Reason succeeded, want error on 503")
	}
}
