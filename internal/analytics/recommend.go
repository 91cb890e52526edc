package analytics

import (
	"context"
	"fmt"
	"strings"

	"brigade/internal/capability"
	"brigade/internal/models"

	"github.com/sirupsen/logrus"
)

// Bounds for the summarization and generation stages.
const (
	summaryMaxWords     = 200
	summaryMinWords     = 50
	generateMaxTokens   = 500
	generateTemperature = 0.7
	sampleCount         = 3
)

// NoHistoryText is the recommendation emitted for customers with no feedback
// history. The no-history path makes no external calls at all.
const NoHistoryText = "No feedback history for this customer; prepare all items using the standard recipe."

// OrderLine is one current-order item as presented to the generator.
type OrderLine struct {
	Name     string
	Quantity int
}

// Synthesizer produces chef-facing cooking recommendations from a customer's
// feedback history and their current order. Every external call in the
// pipeline is independently fault-isolated: a failure degrades the content of
// that stage but never changes which stages run.
type Synthesizer struct {
	aggregator *Aggregator
	classifier capability.Classifier
	summarizer capability.Summarizer
	generator  capability.Generator
	workers    int
	log        *logrus.Logger
}

// NewSynthesizer wires the synthesizer's pipeline.
func NewSynthesizer(a *Aggregator, c capability.Classifier, s capability.Summarizer, g capability.Generator, log *logrus.Logger) *Synthesizer {
	return &Synthesizer{
		aggregator: a,
		classifier: c,
		summarizer: s,
		generator:  g,
		workers:    defaultWorkers,
		log:        log,
	}
}

// Synthesize runs the recommendation pipeline for one customer. currentOrder
// may be empty when the customer has no open order. Only a store failure
// returns an error; capability failures degrade in place.
func (s *Synthesizer) Synthesize(ctx context.Context, userID uint, currentOrder []OrderLine) (models.Recommendation, error) {
	history, err := s.aggregator.Collect(ctx, UserScope(userID))
	if err != nil {
		return models.Recommendation{}, err
	}
	if len(history) == 0 {
		return models.Recommendation{
			Text:      NoHistoryText,
			Priority:  models.PriorityNormal,
			Sentiment: models.SentimentNeutral,
		}, nil
	}

	sentiments := classifyAll(ctx, s.classifier, history, s.workers)

	digest := buildDigest(history, sentiments)
	summary := s.summarizer.Summarize(ctx, digest, summaryMaxWords, summaryMinWords)
	if summary.Degraded {
		s.log.WithField("user_id", userID).WithField("reason", summary.Reason).
			Warn("recommendation built on fallback summary")
	}

	guidance := s.generator.Generate(ctx, buildPrompt(summary.Value, currentOrder), generateMaxTokens, generateTemperature)
	if guidance.Degraded {
		s.log.WithField("user_id", userID).WithField("reason", guidance.Reason).
			Warn("recommendation degraded to fallback text")
	}

	var ratingSum, negatives int
	var dist models.SentimentDistribution
	for i := range history {
		ratingSum += history[i].Rating
		dist.Add(sentiments[i].Label)
		if sentiments[i].Label == models.SentimentNegative {
			negatives++
		}
	}
	avgRating := float64(ratingSum) / float64(len(history))

	return models.Recommendation{
		Text:      guidance.Value,
		Priority:  priorityFor(avgRating, negatives, len(history)),
		Sentiment: overallSentiment(avgRating),
		HistoricalData: models.HistoricalData{
			AverageRating:   avgRating,
			TotalFeedback:   len(history),
			SentimentCounts: dist,
		},
		Samples: lastSamples(history, sampleCount),
	}, nil
}

// priorityFor is deterministic in (average rating, negative count, total).
func priorityFor(avgRating float64, negatives, total int) models.RecommendationPriority {
	switch {
	case avgRating < 2.5 || float64(negatives) > 0.5*float64(total):
		return models.PriorityHigh
	case avgRating > 4.2 && negatives == 0:
		return models.PriorityLow
	default:
		return models.PriorityNormal
	}
}

// overallSentiment maps the history's average rating to a single label.
func overallSentiment(avgRating float64) models.SentimentLabel {
	switch {
	case avgRating >= 3:
		return models.SentimentPositive
	case avgRating >= 2:
		return models.SentimentNeutral
	default:
		return models.SentimentNegative
	}
}

// buildDigest renders the history as one chronologically ordered line per
// record for the summarizer.
func buildDigest(history []models.FeedbackRecord, sentiments []models.SentimentResult) string {
	var b strings.Builder
	for i, r := range history {
		comment := r.Comment
		if strings.TrimSpace(comment) == "" {
			comment = "(no comment)"
		}
		fmt.Fprintf(&b, "%s | %s | rated %d/5 | %s | %s (confidence %.2f)\n",
			r.CreatedAt.Format("2006-01-02"), r.FoodItemName, r.Rating, comment,
			sentiments[i].Label, sentiments[i].Score)
	}
	return b.String()
}

// buildPrompt combines the history summary with the current order items.
func buildPrompt(summary string, currentOrder []OrderLine) string {
	var b strings.Builder
	b.WriteString("You are advising a chef preparing a returning customer's order.\n\n")
	b.WriteString("Customer feedback history summary:\n")
	b.WriteString(summary)
	b.WriteString("\n\nCurrent order:\n")
	if len(currentOrder) == 0 {
		b.WriteString("(no open order)\n")
	}
	for _, line := range currentOrder {
		fmt.Fprintf(&b, "- %dx %s\n", line.Quantity, line.Name)
	}
	b.WriteString("\nGive concise, actionable cooking guidance for this order based on the customer's history.")
	return b.String()
}

// lastSamples returns the n most recent records as chef-context samples,
// oldest of the tail first.
func lastSamples(history []models.FeedbackRecord, n int) []models.FeedbackSample {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	samples := make([]models.FeedbackSample, 0, len(history))
	for _, r := range history {
		samples = append(samples, models.FeedbackSample{
			FoodItemName: r.FoodItemName,
			Rating:       r.Rating,
			Comment:      r.Comment,
			CreatedAt:    r.CreatedAt,
		})
	}
	return samples
}
