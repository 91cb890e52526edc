package capability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"brigade/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func contentResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClassifyBlankTextShortCircuits(t *testing.T) {
	mockLLM := new(MockLLM)
	classifier := NewLLMClassifier(mockLLM, time.Second, quietLogger())

	for _, text := range []string{"", "   ", "\n\t"} {
		outcome := classifier.Classify(context.Background(), text)
		assert.False(t, outcome.Degraded)
		assert.Equal(t, models.NeutralSentiment(), outcome.Value)
	}
	mockLLM.AssertNumberOfCalls(t, "GenerateContent", 0)
}

func TestClassifyParsesModelResponse(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(contentResponse("```json\n{\"label\": \"Positive\", \"score\": 0.92}\n```"), nil)
	classifier := NewLLMClassifier(mockLLM, time.Second, quietLogger())

	outcome := classifier.Classify(context.Background(), "best steak I've had in years")

	require.False(t, outcome.Degraded)
	assert.Equal(t, models.SentimentPositive, outcome.Value.Label)
	assert.Equal(t, 0.92, outcome.Value.Score)
}

func TestClassifyRequestFailureDegradesToNeutral(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))
	classifier := NewLLMClassifier(mockLLM, time.Second, quietLogger())

	outcome := classifier.Classify(context.Background(), "soup was cold")

	assert.True(t, outcome.Degraded)
	assert.Contains(t, outcome.Reason, "rate limited")
	assert.Equal(t, models.NeutralSentiment(), outcome.Value)
}

func TestClassifyMalformedResponseDegrades(t *testing.T) {
	cases := []string{
		"the sentiment is positive",
		`{"label": "enthusiastic", "score": 0.7}`,
		`{"label": "positive", "score": 1.4}`,
		`{"label": "positive", "score": -0.1}`,
	}
	for _, raw := range cases {
		mockLLM := new(MockLLM)
		mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
			Return(contentResponse(raw), nil)
		classifier := NewLLMClassifier(mockLLM, time.Second, quietLogger())

		outcome := classifier.Classify(context.Background(), "decent meal")

		assert.True(t, outcome.Degraded, "raw=%q", raw)
		assert.Equal(t, models.NeutralSentiment(), outcome.Value, "raw=%q", raw)
	}
}

func TestSummarizeSuccess(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(contentResponse("  Prefers well-done steak, dislikes heavy salt.  "), nil)
	summarizer := NewLLMSummarizer(mockLLM, time.Second, quietLogger())

	outcome := summarizer.Summarize(context.Background(), "digest text", 200, 50)

	require.False(t, outcome.Degraded)
	assert.Equal(t, "Prefers well-done steak, dislikes heavy salt.", outcome.Value)
}

func TestSummarizeFailureFallsBack(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))
	summarizer := NewLLMSummarizer(mockLLM, time.Second, quietLogger())

	outcome := summarizer.Summarize(context.Background(), "digest text", 200, 50)

	assert.True(t, outcome.Degraded)
	assert.Equal(t, FallbackSummary, outcome.Value)
}

func TestSummarizeEmptyResponseFallsBack(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(contentResponse("   "), nil)
	summarizer := NewLLMSummarizer(mockLLM, time.Second, quietLogger())

	outcome := summarizer.Summarize(context.Background(), "digest text", 200, 50)

	assert.True(t, outcome.Degraded)
	assert.Equal(t, FallbackSummary, outcome.Value)
}

func TestGenerateSuccess(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(contentResponse("Sear the steak hotter and rest it longer."), nil)
	generator := NewLLMGenerator(mockLLM, time.Second, quietLogger())

	outcome := generator.Generate(context.Background(), "prompt", 500, 0.7)

	require.False(t, outcome.Degraded)
	assert.Equal(t, "Sear the steak hotter and rest it longer.", outcome.Value)
}

func TestGenerateFailureFallsBack(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, errors.New("service unavailable"))
	generator := NewLLMGenerator(mockLLM, time.Second, quietLogger())

	outcome := generator.Generate(context.Background(), "prompt", 500, 0.7)

	assert.True(t, outcome.Degraded)
	assert.Equal(t, FallbackRecommendation, outcome.Value)
	assert.Contains(t, outcome.Reason, "service unavailable")
}
