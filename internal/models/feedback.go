package models

import (
	"fmt"
	"time"
)

// FeedbackRecord represents one rating+comment pair left by a customer for a
// food item. Records are owned by the item they review; after creation the
// only mutation is attaching a kitchen reply.
type FeedbackRecord struct {
	ID           uint       `gorm:"primary_key" json:"id"`
	FoodItemID   uint       `gorm:"index;not null" json:"foodItemId"`
	FoodItemName string     `gorm:"-" json:"foodItemName,omitempty"`
	UserID       *uint      `gorm:"index" json:"userId,omitempty"` // nil for anonymous feedback
	Rating       int        `gorm:"not null" json:"rating"`
	Comment      string     `gorm:"type:text" json:"comment"`
	Reply        *string    `gorm:"type:text" json:"reply,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
	Resolved     bool       `gorm:"default:false" json:"resolved"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ValidateFeedback checks a feedback record before it is persisted.
func ValidateFeedback(f *FeedbackRecord) error {
	if f.FoodItemID == 0 {
		return fmt.Errorf("feedback must reference a food item")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", f.Rating)
	}
	return nil
}

// SentimentLabel classifies the tone of a feedback comment.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentResult is the outcome of classifying one comment. It is derived
// on demand and never persisted.
type SentimentResult struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// NeutralSentiment is the defined value for blank comments and the fallback
// when classification fails.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Label: SentimentNeutral, Score: 0.5}
}

// ParseSentimentLabel normalizes a classifier label, rejecting anything
// outside the three known values.
func ParseSentimentLabel(s string) (SentimentLabel, error) {
	switch SentimentLabel(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return SentimentLabel(s), nil
	}
	return "", fmt.Errorf("unknown sentiment label %q", s)
}
