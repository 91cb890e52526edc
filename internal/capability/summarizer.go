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

// Summarizer condenses a feedback digest into a bounded-length summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) Outcome[string]
}

// FallbackSummary is substituted when the summarization capability fails.
const FallbackSummary = "A summary of this customer's past feedback is unavailable; refer to the attached feedback samples."

const summarizerPrompt = `Summarize the following customer feedback history for a chef in %d to %d words.
Focus on recurring complaints, praised dishes, and preparation preferences.

%s`

// LLMSummarizer summarizes text with a hosted language model, degrading to
// FallbackSummary on any failure.
type LLMSummarizer struct {
	llm     llms.LLM
	timeout time.Duration
	log     *logrus.Logger
}

// NewLLMSummarizer creates a summarizer backed by the given model.
func NewLLMSummarizer(llm llms.LLM, timeout time.Duration, log *logrus.Logger) *LLMSummarizer {
	return &LLMSummarizer{llm: llm, timeout: timeout, log: log}
}

// Summarize produces a summary of text between minLen and maxLen words.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) Outcome[string] {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, s.llm,
		fmt.Sprintf(summarizerPrompt, minLen, maxLen, text),
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(maxLen*2),
	)
	monitoring.ObserveCapability("summarizer", time.Since(start))
	if err != nil {
		monitoring.CountFallback("summarizer", "request_failed")
		s.log.WithField("reason", err.Error()).Warn("feedback summarization degraded to fallback")
		return Degraded(FallbackSummary, fmt.Sprintf("summarizer call failed: %v", err))
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		monitoring.CountFallback("summarizer", "bad_response")
		s.log.Warn("summarizer returned empty text")
		return Degraded(FallbackSummary, "summarizer returned empty text")
	}
	return Ok(summary)
}
