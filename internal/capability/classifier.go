package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brigade/internal/models"
	"brigade/internal/monitoring"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

// Classifier assigns a sentiment label and confidence to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) Outcome[models.SentimentResult]
}

const classifierPrompt = `Classify the sentiment of the following restaurant feedback comment.
Respond with only a JSON object of the form {"label": "positive"|"neutral"|"negative", "score": <confidence 0..1>}.

Comment: %s`

// LLMClassifier classifies comments with a hosted language model. Every call
// gets a single attempt bounded by a timeout; any failure degrades to the
// neutral default so one classifier hiccup never fails a whole analytics
// request.
type LLMClassifier struct {
	llm     llms.LLM
	timeout time.Duration
	log     *logrus.Logger
}

// NewLLMClassifier creates a classifier backed by the given model.
func NewLLMClassifier(llm llms.LLM, timeout time.Duration, log *logrus.Logger) *LLMClassifier {
	return &LLMClassifier{llm: llm, timeout: timeout, log: log}
}

// Classify returns the sentiment of text. Blank text is defined as neutral
// and never reaches the model.
func (c *LLMClassifier) Classify(ctx context.Context, text string) Outcome[models.SentimentResult] {
	if strings.TrimSpace(text) == "" {
		return Ok(models.NeutralSentiment())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, c.llm,
		fmt.Sprintf(classifierPrompt, text),
		llms.WithTemperature(0),
		llms.WithMaxTokens(64),
	)
	monitoring.ObserveCapability("classifier", time.Since(start))
	if err != nil {
		return c.degrade("request_failed", fmt.Sprintf("classifier call failed: %v", err))
	}

	result, err := parseSentiment(raw)
	if err != nil {
		return c.degrade("bad_response", fmt.Sprintf("classifier response unusable: %v", err))
	}
	return Ok(result)
}

func (c *LLMClassifier) degrade(kind, reason string) Outcome[models.SentimentResult] {
	monitoring.CountFallback("classifier", kind)
	c.log.WithField("reason", reason).Warn("sentiment classification degraded to neutral")
	return Degraded(models.NeutralSentiment(), reason)
}

// parseSentiment extracts a SentimentResult from a model response, tolerating
// surrounding prose and code fences.
func parseSentiment(raw string) (models.SentimentResult, error) {
	begin := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if begin < 0 || end <= begin {
		return models.SentimentResult{}, fmt.Errorf("no JSON object in %q", raw)
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw[begin:end+1]), &parsed); err != nil {
		return models.SentimentResult{}, err
	}

	label, err := models.ParseSentimentLabel(strings.ToLower(strings.TrimSpace(parsed.Label)))
	if err != nil {
		return models.SentimentResult{}, err
	}
	if parsed.Score < 0 || parsed.Score > 1 {
		return models.SentimentResult{}, fmt.Errorf("confidence %v out of range", parsed.Score)
	}
	return models.SentimentResult{Label: label, Score: parsed.Score}, nil
}
