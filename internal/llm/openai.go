// Package llm implements the LLM-backed symptom analysis strategy. It is a
// drop-in alternative to the rule-based scorer behind the same
// domain.Analyzer contract: prompt construction in, JSON-shaped analysis
// out. Unlike the rule-based core it performs network I/O, so it carries
// its own timeout, retry, and circuit breaker policy.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/symptom-triage-server/internal/domain"
)

// defaultModel is used when no model is configured.
const defaultModel = "gpt-4o"

// Message is one turn in a follow-up conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionClient abstracts the OpenAI chat completion call for testing.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is the OpenAI-backed analysis strategy. All external calls run
// through a circuit breaker so a degraded upstream fails fast instead of
// piling up requests.
type Client struct {
	api        completionClient
	model      string
	timeout    time.Duration
	maxRetries int
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewClient creates the LLM-backed strategy from configuration. The API key
// must be non-empty; strategy selection upstream falls back to the
// rule-based analyzer when it is not set.
func NewClient(cfg domain.OpenAIConfig, logger *logrus.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "OpenAI",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		api:        openai.NewClient(cfg.APIKey),
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
		breaker:    breaker,
		logger:     logger,
	}, nil
}

// Analyze sends the triage prompt to the model and parses the JSON
// response. Any failure (network, breaker open, malformed response)
// collapses to the fail-safe result, matching the rule-based strategy's
// contract.
func (c *Client) Analyze(ctx context.Context, req *domain.AnalysisRequest) *domain.AnalysisResult {
	if req == nil {
		return domain.NewFailSafeResult("Error analyzing symptoms: missing request")
	}

	c.logger.WithFields(logrus.Fields{
		"symptom_count": len(req.Symptoms),
		"model":         c.model,
	}).Info("Starting LLM-backed symptom analysis")

	content, err := c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: buildAnalysisPrompt(req)},
	}, 0.2, true)
	if err != nil {
		c.logger.WithError(err).Error("LLM analysis request failed")
		return domain.NewFailSafeResult(fmt.Sprintf("Error analyzing symptoms: %v", err))
	}

	result, err := parseAnalysisResponse(content)
	if err != nil {
		c.logger.WithError(err).Error("Failed to parse LLM analysis response")
		return domain.NewFailSafeResult(fmt.Sprintf("Error analyzing symptoms: %v", err))
	}

	c.logger.WithFields(logrus.Fields{
		"candidates": len(result.PossibleConditions),
		"risk_level": result.RiskLevel,
	}).Info("Completed LLM-backed symptom analysis")

	return result
}

// Converse produces one supportive follow-up reply about the given
// symptoms, continuing any prior turns.
func (c *Client) Converse(ctx context.Context, symptoms []string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: conversationSystemPrompt,
	})
	for _, m := range history {
		role := m.Role
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if len(history) == 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: buildConversationPrompt(symptoms),
		})
	}

	// Higher temperature than analysis: replies should read naturally.
	return c.complete(ctx, messages, 0.7, false)
}

// complete performs the chat completion through the circuit breaker with
// per-attempt timeouts and bounded retries.
func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage, temperature float32, jsonResponse bool) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if jsonResponse {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		content, err := c.breaker.Execute(func() (interface{}, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			resp, err := c.api.CreateChatCompletion(attemptCtx, request)
			if err != nil {
				return nil, err
			}
			if len(resp.Choices) == 0 {
				return nil, fmt.Errorf("empty completion response")
			}
			return resp.Choices[0].Message.Content, nil
		})
		if err == nil {
			return content.(string), nil
		}

		lastErr = err
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			// Upstream is considered down; retrying immediately is pointless.
			break
		}

		c.logger.WithError(err).WithField("attempt", attempt+1).Warn("Completion attempt failed")
	}

	return "", fmt.Errorf("completion failed after retries: %w", lastErr)
}

// parseAnalysisResponse decodes the model's JSON payload and enforces the
// output invariants the rest of the system relies on: at most five
// candidates, at most three unique sources, and a valid risk level.
func parseAnalysisResponse(content string) (*domain.AnalysisResult, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a fenced code block despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decoding analysis response: %w", err)
	}

	if !result.RiskLevel.IsValid() {
		return nil, fmt.Errorf("invalid risk level %q in analysis response", result.RiskLevel)
	}
	if result.PossibleConditions == nil {
		result.PossibleConditions = []domain.PossibleCondition{}
	}
	if len(result.PossibleConditions) > 5 {
		result.PossibleConditions = result.PossibleConditions[:5]
	}

	seen := make(map[string]struct{}, len(result.MedicalSources))
	sources := make([]string, 0, len(result.MedicalSources))
	for _, s := range result.MedicalSources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		sources = append(sources, s)
		if len(sources) == 3 {
			break
		}
	}
	result.MedicalSources = sources

	return &result, nil
}
