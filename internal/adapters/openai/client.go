package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/config"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
)

const (
	systemPrompt = "You are a parser. Return ONLY valid JSON that matches the requested schema. " +
		"Dates must be ISO-8601 strings. If only a day is known, use YYYY-MM-DD."

	userPromptPrefix = "Parse this syllabus into JSON with shape: " +
		`{"summary":{"quizzes":3,"assignments":5,"exams":2},"events":[{"title":"...","type":"quiz|assignment|exam","date":"YYYY-MM-DD or ISO datetime","description":"..."}]}.`
)

// Client calls the chat-completion endpoint to turn raw syllabus text into
// structured events. The model is treated as an opaque converter; everything it
// returns is schema-validated before use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	validate   *validator.Validate
	logger     *logger.Logger
}

// New creates an extraction client.
func New(cfg config.OpenAIConfig, appLogger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		validate:   validator.New(),
		logger:     appLogger,
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the syllabus text to the model and returns the validated result.
func (c *Client) Extract(ctx context.Context, syllabus string) (*entities.ParsedSyllabus, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("extraction is not configured: missing OpenAI API key")
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Temperature:    0.2,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + "\n\nSYLLABUS:\n" + syllabus},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction request failed (%d): %s", res.StatusCode, string(payload))
	}

	var completion chatResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("extraction returned no choices")
	}

	parsed, err := c.decodeResult(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Infow("syllabus extracted",
		"events", len(parsed.Events),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return parsed, nil
}

// decodeResult parses and validates the model output.
func (c *Client) decodeResult(content string) (*entities.ParsedSyllabus, error) {
	var parsed entities.ParsedSyllabus
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("extraction returned malformed JSON: %w", err)
	}
	if err := c.validate.Struct(&parsed); err != nil {
		return nil, fmt.Errorf("extraction result failed validation: %w", err)
	}
	return &parsed, nil
}

// extractJSON tolerates accidental wrapping around the JSON object.
func extractJSON(content string) string {
	first := strings.IndexByte(content, '{')
	last := strings.LastIndexByte(content, '}')
	if first >= 0 && last > first {
		return content[first : last+1]
	}
	return content
}
