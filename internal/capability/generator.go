package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brigade/internal/monitoring"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

// Generator produces free-form text from a structured prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) Outcome[string]
}

// FallbackRecommendation is substituted when the generation capability fails.
const FallbackRecommendation = "Follow the standard recipe and plating guidelines for each item in this order."

// LLMGenerator generates text with a hosted language model, degrading to
// FallbackRecommendation on any failure.
type LLMGenerator struct {
	llm     llms.LLM
	timeout time.Duration
	log     *logrus.Logger
}

// NewLLMGenerator creates a generator backed by the given model.
func NewLLMGenerator(llm llms.LLM, timeout time.Duration, log *logrus.Logger) *LLMGenerator {
	return &LLMGenerator{llm: llm, timeout: timeout, log: log}
}

// Generate runs the prompt through the model with the given sampling bounds.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) Outcome[string] {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	monitoring.ObserveCapability("generator", time.Since(start))
	if err != nil {
		monitoring.CountFallback("generator", "request_failed")
		g.log.WithField("reason", err.Error()).Warn("recommendation generation degraded to fallback")
		return Degraded(FallbackRecommendation, fmt.Sprintf("generator call failed: %v", err))
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		monitoring.CountFallback("generator", "bad_response")
		g.log.Warn("generator returned empty text")
		return Degraded(FallbackRecommendation, "generator returned empty text")
	}
	return Ok(text)
}
