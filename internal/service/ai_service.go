package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/tracing"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
)

// AIService talks to an OpenAI compatible chat-completions endpoint.
// Every call runs under the configured timeout and is never retried.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	Client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg, Client: &http.Client{}}
}

// UpdateConfig swaps the model settings; in-flight calls keep the old ones.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // streaming
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func generationError(err error) error {
	return fmt.Errorf("%w: %w", util.ErrGenerationFailed, err)
}

func buildMessages(system string, history []model.ChatMessage, prompt string) []AIChatMessage {
	messages := make([]AIChatMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: system})
	}
	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}
	return append(messages, AIChatMessage{Role: "user", Content: prompt})
}

func (s *AIService) newRequest(ctx context.Context, cfg config.AIConfig, body ChatCompletionRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	return req, nil
}

// Complete sends one system+user exchange and returns the reply text.
func (s *AIService) Complete(ctx context.Context, system, prompt string) (reply string, err error) {
	cfg := s.currentConfig()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "ai.complete")
	span.SetAttributes(attribute.String("ai.model", cfg.Model))
	defer func() { tracing.EndSpan(span, err) }()

	req, err := s.newRequest(ctx, cfg, ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: buildMessages(system, nil, prompt),
	})
	if err != nil {
		return "", generationError(err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", generationError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", generationError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", generationError(fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", generationError(err)
	}
	if result.Error != nil {
		return "", generationError(fmt.Errorf("AI API error: %s", result.Error.Message))
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", generationError(fmt.Errorf("AI returned no choices"))
	}
	return result.Choices[0].Message.Content, nil
}

// ChatStream streams the reply as SSE deltas. The error channel receives at
// most one error and both channels are closed when the stream ends.
func (s *AIService) ChatStream(ctx context.Context, system string, history []model.ChatMessage, prompt string) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)
	cfg := s.currentConfig()

	go func() {
		defer close(out)
		defer close(errChan)

		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()

		req, err := s.newRequest(ctx, cfg, ChatCompletionRequest{
			Model:    cfg.Model,
			Messages: buildMessages(system, history, prompt),
			Stream:   true,
		})
		if err != nil {
			errChan <- generationError(err)
			return
		}

		resp, err := s.Client.Do(req)
		if err != nil {
			errChan <- generationError(err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- generationError(fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body)))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- generationError(err)
				}
				return
			}

			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var chunk ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case out <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				errChan <- generationError(ctx.Err())
				return
			}
		}
	}()

	return out, errChan
}
