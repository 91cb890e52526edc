package models

import "time"

// SentimentDistribution counts classified feedback per label.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Add increments the count for the given label.
func (d *SentimentDistribution) Add(label SentimentLabel) {
	switch label {
	case SentimentPositive:
		d.Positive++
	case SentimentNegative:
		d.Negative++
	default:
		d.Neutral++
	}
}

// Total returns the number of counted records.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Neutral + d.Negative
}

// Max returns the largest single-label count.
func (d SentimentDistribution) Max() int {
	m := d.Positive
	if d.Neutral > m {
		m = d.Neutral
	}
	if d.Negative > m {
		m = d.Negative
	}
	return m
}

// SatisfactionProfile is the aggregate satisfaction picture for one scope
// (a user, a food item, or the whole restaurant). SatisfactionScore is nil
// when TotalFeedback is zero: the score is undefined without feedback and
// callers must check before displaying it.
type SatisfactionProfile struct {
	ScopeID               string                `json:"scopeId"`
	TotalFeedback         int                   `json:"totalFeedback"`
	AverageRating         float64               `json:"averageRating"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	SatisfactionScore     *float64              `json:"satisfactionScore,omitempty"`
}

// TrendPeriod selects the granularity used to bucket feedback over time.
type TrendPeriod string

const (
	PeriodDay   TrendPeriod = "day"
	PeriodWeek  TrendPeriod = "week"
	PeriodMonth TrendPeriod = "month"
	PeriodYear  TrendPeriod = "year"
)

// ParseTrendPeriod maps a query value to a period, defaulting to month.
func ParseTrendPeriod(s string) TrendPeriod {
	switch TrendPeriod(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return TrendPeriod(s)
	}
	return PeriodMonth
}

// TrendBucket aggregates feedback falling inside one time period. The rating
// average covers the full bucket population; SampledSentiment is drawn from a
// bounded random sample (SampleSize records) and is an approximation, not an
// exact census.
type TrendBucket struct {
	PeriodKey        string                `json:"periodKey"`
	FeedbackCount    int                   `json:"feedbackCount"`
	AverageRating    float64               `json:"averageRating"`
	SampledSentiment SentimentDistribution `json:"sampledSentiment"`
	SampleSize       int                   `json:"sampleSize"`
}

// RecommendationPriority tags how urgently the kitchen should act on a
// recommendation.
type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "low"
	PriorityNormal RecommendationPriority = "normal"
	PriorityHigh   RecommendationPriority = "high"
)

// HistoricalData summarizes the feedback history a recommendation was
// derived from.
type HistoricalData struct {
	AverageRating   float64               `json:"averageRating"`
	TotalFeedback   int                   `json:"totalFeedback"`
	SentimentCounts SentimentDistribution `json:"sentimentCounts"`
}

// FeedbackSample is a representative entry attached to a recommendation for
// chef context.
type FeedbackSample struct {
	FoodItemName string    `json:"foodItemName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Recommendation is the chef-facing cooking guidance synthesized from a
// customer's feedback history and their current order. Generated per request
// and never persisted.
type Recommendation struct {
	Text           string                 `json:"text"`
	Priority       RecommendationPriority `json:"priority"`
	Sentiment      SentimentLabel         `json:"sentiment"`
	HistoricalData HistoricalData         `json:"historicalData"`
	Samples        []FeedbackSample       `json:"samples"`
}
