package analytics

import (
	"context"
	"math"

	"brigade/internal/capability"
	"brigade/internal/models"
)

// Fixed blend weights for the satisfaction score.
const (
	ratingWeight    = 0.6
	sentimentWeight = 0.4
)

// Scorer turns a set of feedback records into a satisfaction profile.
type Scorer struct {
	classifier capability.Classifier
	workers    int
}

// NewScorer creates a scorer using the given classifier.
func NewScorer(c capability.Classifier) *Scorer {
	return &Scorer{classifier: c, workers: defaultWorkers}
}

// Score computes the satisfaction profile for the given records. With zero
// records the profile's score stays nil: satisfaction is undefined without
// feedback, and callers must check TotalFeedback before displaying it.
func (s *Scorer) Score(ctx context.Context, scopeID string, records []models.FeedbackRecord) models.SatisfactionProfile {
	profile := models.SatisfactionProfile{
		ScopeID:       scopeID,
		TotalFeedback: len(records),
	}
	if len(records) == 0 {
		return profile
	}

	var ratingSum int
	for _, r := range records {
		ratingSum += r.Rating
	}
	avgRating := float64(ratingSum) / float64(len(records))
	profile.AverageRating = math.Round(avgRating*10) / 10

	for _, result := range classifyAll(ctx, s.classifier, records, s.workers) {
		profile.SentimentDistribution.Add(result.Label)
	}

	ratio := sentimentRatio(profile.SentimentDistribution)
	score := math.Round((avgRating/5*ratingWeight+ratio*sentimentWeight)*100*100) / 100
	profile.SatisfactionScore = &score
	return profile
}

// sentimentRatio is the positive-label count divided by the largest
// single-label count, defaulting to 0.5 when there is nothing to compare.
func sentimentRatio(d models.SentimentDistribution) float64 {
	max := d.Max()
	if max == 0 {
		return 0.5
	}
	return float64(d.Positive) / float64(max)
}
