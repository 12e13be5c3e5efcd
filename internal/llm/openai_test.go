package llm

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
)

// stubCompletion returns canned responses and records requests.
type stubCompletion struct {
	response string
	err      error
	requests []openai.ChatCompletionRequest
}

func (s *stubCompletion) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
	}, nil
}

func newStubClient(stub *stubCompletion) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Client{
		api:        stub,
		model:      defaultModel,
		timeout:    time.Second,
		maxRetries: 0,
		breaker:    gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"}),
		logger:     logger,
	}
}

const validResponse = `{
	"possible_conditions": [
		{
			"name": "Common Cold",
			"description": "A viral infection",
			"common_symptoms": ["Cough", "Fever"],
			"diet_recommendations": ["Stay hydrated"]
		}
	],
	"risk_level": "low",
	"seek_medical_attention": false,
	"general_advice": "Rest and hydrate. This is not a medical diagnosis.",
	"medical_sources": ["Mayo Clinic", "CDC"]
}`

func testRequest() *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		Symptoms:       []string{"Cough", "Fever"},
		Age:            30,
		Gender:         "Female",
		Duration:       domain.DurationDays,
		Severity:       domain.SeverityMild,
		AdditionalInfo: "recently traveled",
	}
}

func TestClientAnalyze(t *testing.T) {
	stub := &stubCompletion{response: validResponse}
	client := newStubClient(stub)

	result := client.Analyze(context.Background(), testRequest())

	require.False(t, result.Error)
	require.Len(t, result.PossibleConditions, 1)
	assert.Equal(t, "Common Cold", result.PossibleConditions[0].Name)
	assert.Equal(t, domain.RiskLow, result.RiskLevel)
	assert.Len(t, result.MedicalSources, 2)

	// The upstream request must ask for a JSON object at low temperature.
	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
}

func TestClientAnalyzeUpstreamFailure(t *testing.T) {
	stub := &stubCompletion{err: errors.New("boom")}
	client := newStubClient(stub)

	result := client.Analyze(context.Background(), testRequest())

	assert.True(t, result.Error)
	assert.Equal(t, domain.RiskUnknown, result.RiskLevel)
	assert.True(t, result.SeekMedicalAttention, "failures must recommend care")
	assert.Len(t, result.MedicalSources, 2)
}

func TestClientAnalyzeMalformedResponse(t *testing.T) {
	stub := &stubCompletion{response: "I'm sorry, I can't do that."}
	client := newStubClient(stub)

	result := client.Analyze(context.Background(), testRequest())

	assert.True(t, result.Error)
	assert.Equal(t, domain.RiskUnknown, result.RiskLevel)
	assert.True(t, result.SeekMedicalAttention)
}

func TestClientAnalyzeNilRequest(t *testing.T) {
	client := newStubClient(&stubCompletion{response: validResponse})
	result := client.Analyze(context.Background(), nil)
	assert.True(t, result.Error)
}

func TestBuildAnalysisPromptContainsAllFields(t *testing.T) {
	prompt := buildAnalysisPrompt(testRequest())

	assert.Contains(t, prompt, "Age: 30")
	assert.Contains(t, prompt, "Gender: Female")
	assert.Contains(t, prompt, "Symptoms: Cough, Fever")
	assert.Contains(t, prompt, "Duration: Days")
	assert.Contains(t, prompt, "Severity: Mild")
	assert.Contains(t, prompt, "Additional Information: recently traveled")
	assert.Contains(t, prompt, "possible_conditions")
	assert.Contains(t, prompt, "not a medical diagnosis")
}

func TestParseAnalysisResponse(t *testing.T) {
	t.Run("fenced code block", func(t *testing.T) {
		result, err := parseAnalysisResponse("```json\n" + validResponse + "\n```")
		require.NoError(t, err)
		assert.Equal(t, domain.RiskLow, result.RiskLevel)
	})

	t.Run("invalid risk level", func(t *testing.T) {
		_, err := parseAnalysisResponse(`{"risk_level": "critical"}`)
		assert.Error(t, err)
	})

	t.Run("caps conditions and sources", func(t *testing.T) {
		payload := `{
			"possible_conditions": [
				{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"},{"name":"g"}
			],
			"risk_level": "moderate",
			"seek_medical_attention": true,
			"general_advice": "see a doctor",
			"medical_sources": ["s1", "s2", "s1", "s3", "s4"]
		}`
		result, err := parseAnalysisResponse(payload)
		require.NoError(t, err)
		assert.Len(t, result.PossibleConditions, 5)
		assert.Equal(t, []string{"s1", "s2", "s3"}, result.MedicalSources)
	})

	t.Run("missing conditions becomes empty slice", func(t *testing.T) {
		result, err := parseAnalysisResponse(`{"risk_level":"low","general_advice":"rest"}`)
		require.NoError(t, err)
		assert.NotNil(t, result.PossibleConditions)
		assert.Empty(t, result.PossibleConditions)
	})
}

func TestConverseUsesHigherTemperature(t *testing.T) {
	stub := &stubCompletion{response: "Take care of yourself and rest."}
	client := newStubClient(stub)

	reply, err := client.Converse(context.Background(), []string{"Headache"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Nil(t, req.ResponseFormat)
	assert.InDelta(t, 0.7, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "Headache")
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := NewClient(domain.OpenAIConfig{}, logger)
	assert.Error(t, err)

	client, err := NewClient(domain.OpenAIConfig{APIKey: "sk-test"}, logger)
	require.NoError(t, err)
	assert.Equal(t, defaultModel, client.model)
}
