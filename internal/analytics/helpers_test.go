package analytics

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"brigade/internal/capability"
	"brigade/internal/models"
	"brigade/internal/store"

	"github.com/sirupsen/logrus"
)

// testLogger returns a logger that stays quiet during tests.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stubClassifier returns canned sentiments by comment text and can inject
// per-comment failures.
type stubClassifier struct {
	mu      sync.Mutex
	results map[string]models.SentimentResult
	failOn  map[string]bool
	calls   int
}

func (s *stubClassifier) Classify(_ context.Context, text string) capability.Outcome[models.SentimentResult] {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.failOn[text] {
		return capability.Degraded(models.NeutralSentiment(), "injected failure")
	}
	if r, ok := s.results[text]; ok {
		return capability.Ok(r)
	}
	return capability.Ok(models.NeutralSentiment())
}

func (s *stubClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubSummarizer struct {
	summary  string
	degraded bool
	calls    int
	lastText string
}

func (s *stubSummarizer) Summarize(_ context.Context, text string, _, _ int) capability.Outcome[string] {
	s.calls++
	s.lastText = text
	if s.degraded {
		return capability.Degraded(capability.FallbackSummary, "injected failure")
	}
	return capability.Ok(s.summary)
}

type stubGenerator struct {
	text       string
	degraded   bool
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, _ int, _ float64) capability.Outcome[string] {
	g.calls++
	g.lastPrompt = prompt
	if g.degraded {
		return capability.Degraded(capability.FallbackRecommendation, "injected failure")
	}
	return capability.Ok(g.text)
}

// stubStore serves canned feedback and records the filters it saw. Only the
// methods the analytics core touches are implemented.
type stubStore struct {
	records    []models.FeedbackRecord
	err        error
	lastFilter store.FeedbackFilter
}

func (s *stubStore) QueryFeedback(_ context.Context, filter store.FeedbackFilter) ([]models.FeedbackRecord, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.FeedbackRecord, 0, len(s.records))
	for _, r := range s.records {
		if filter.UserID != nil && (r.UserID == nil || *r.UserID != *filter.UserID) {
			continue
		}
		if filter.FoodItemID != nil && r.FoodItemID != *filter.FoodItemID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStore) CreateFeedback(context.Context, *models.FeedbackRecord) error {
	panic("not used in analytics tests")
}

func (s *stubStore) AttachReply(context.Context, uint, string) (*models.FeedbackRecord, error) {
	panic("not used in analytics tests")
}

func (s *stubStore) QueryOrders(context.Context, store.OrderFilter) ([]models.Order, error) {
	return nil, nil
}

func (s *stubStore) CreateOrder(context.Context, *models.Order) error {
	panic("not used in analytics tests")
}

func (s *stubStore) GetOrder(context.Context, uint) (*models.Order, error) {
	return nil, store.ErrNotFound
}

func (s *stubStore) UpdateOrderStatus(context.Context, uint, models.OrderStatus) (*models.Order, error) {
	panic("not used in analytics tests")
}

func (s *stubStore) ListFoodItems(context.Context) ([]models.FoodItem, error) {
	return nil, nil
}

func (s *stubStore) GetFoodItem(context.Context, uint) (*models.FoodItem, error) {
	return nil, store.ErrNotFound
}

// fb builds a feedback record for tests.
func fb(id, item uint, user *uint, rating int, comment string, at time.Time) models.FeedbackRecord {
	return models.FeedbackRecord{
		ID:           id,
		FoodItemID:   item,
		FoodItemName: fmt.Sprintf("Dish %d", item),
		UserID:       user,
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    at,
	}
}

func uintPtr(v uint) *uint { return &v }
