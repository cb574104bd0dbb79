package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartwms/wms-api/internal/application/ports"
)

// Compile-time check that OllamaService implements CompletionEngine.
var _ ports.CompletionEngine = (*OllamaService)(nil)

// OllamaService is the CompletionEngine adapter for a local Ollama server.
// Plain net/http keeps the adapter free of SDK dependencies.
type OllamaService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaService builds the adapter. baseURL is typically
// "http://localhost:11434", model something like "gemma2:2b".
func NewOllamaService(baseURL, model string) *OllamaService {
	return &OllamaService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // local models can be slow on first load
		},
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Complete sends the utterance to /api/generate and returns the raw model
// output. Cleanup of that output is the recovery pipeline's job.
func (s *OllamaService) Complete(ctx context.Context, utterance string) (string, error) {
	payload := ollamaRequest{
		Model:  s.model,
		System: systemPrompt,
		Prompt: fmt.Sprintf("사용자: %s\n응답:", utterance),
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0, // deterministic classification output
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: building HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout or cancellation: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ollamaResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != "" {
			return "", fmt.Errorf("AI: Ollama error: %s", errResp.Error)
		}
		return "", fmt.Errorf("AI: Ollama HTTP %d", resp.StatusCode)
	}

	var genResp ollamaResponse
	if err := json.Unmarshal(rawBody, &genResp); err != nil {
		return "", fmt.Errorf("AI: unmarshaling Ollama response: %w", err)
	}
	return genResp.Response, nil
}
