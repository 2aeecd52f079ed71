package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/config"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
)

func chatCompletionWith(content string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, logger.NewNop())
}

func TestExtractParsesValidResult(t *testing.T) {
	content := `{"summary":{"quizzes":1,"assignments":0,"exams":1},"events":[` +
		`{"title":"Quiz 1","type":"quiz","date":"2026-02-06"},` +
		`{"title":"Final","type":"exam","date":"2026-04-20T09:00:00Z","description":"Cumulative"}]}`
	c := newTestClient(t, chatCompletionWith(content))

	parsed, err := c.Extract(context.Background(), "CS 240 syllabus text")
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Summary.Quizzes != 1 || parsed.Summary.Exams != 1 {
		t.Errorf("summary = %+v", parsed.Summary)
	}
	if len(parsed.Events) != 2 || parsed.Events[1].Category != entities.CategoryExam {
		t.Errorf("events = %+v", parsed.Events)
	}
}

func TestExtractToleratesWrappedJSON(t *testing.T) {
	content := "Here is the result:\n```json\n" +
		`{"summary":{"quizzes":0,"assignments":1,"exams":0},"events":[{"title":"A1","type":"assignment","date":"2026-02-13"}]}` +
		"\n```"
	c := newTestClient(t, chatCompletionWith(content))

	parsed, err := c.Extract(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Events) != 1 || parsed.Events[0].Title != "A1" {
		t.Errorf("events = %+v", parsed.Events)
	}
}

func TestExtractRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown category", `{"summary":{"quizzes":0,"assignments":0,"exams":0},"events":[{"title":"X","type":"seminar","date":"2026-02-06"}]}`},
		{"missing title", `{"summary":{"quizzes":1,"assignments":0,"exams":0},"events":[{"type":"quiz","date":"2026-02-06"}]}`},
		{"missing date", `{"summary":{"quizzes":1,"assignments":0,"exams":0},"events":[{"title":"Quiz 1","type":"quiz"}]}`},
		{"not json at all", `I could not parse this syllabus.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, chatCompletionWith(tt.content))
			if _, err := c.Extract(context.Background(), "text"); err == nil {
				t.Error("expected schema validation to reject the result")
			}
		})
	}
}

func TestExtractSurfacesUpstreamFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))

	_, err := c.Extract(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want status carried in the message", err)
	}
}

func TestExtractRequiresAPIKey(t *testing.T) {
	c := New(config.OpenAIConfig{BaseURL: "http://localhost:0"}, logger.NewNop())
	if _, err := c.Extract(context.Background(), "text"); err == nil {
		t.Error("expected configuration error without an API key")
	}
}

func TestExtractSendsSyllabusAndSchemaPrompt(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		chatCompletionWith(`{"summary":{"quizzes":0,"assignments":0,"exams":0},"events":[]}`).ServeHTTP(w, r)
	}))

	if _, err := c.Extract(context.Background(), "Week 1: Quiz on Friday"); err != nil {
		t.Fatal(err)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 2 || !strings.Contains(got.Messages[1].Content, "Week 1: Quiz on Friday") {
		t.Errorf("messages = %+v", got.Messages)
	}
}
