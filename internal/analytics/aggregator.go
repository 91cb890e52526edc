package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"brigade/internal/models"
	"brigade/internal/store"
)

// ErrInvalidScope marks a malformed scope identifier. It is surfaced before
// any aggregation work begins.
var ErrInvalidScope = errors.New("invalid scope identifier")

// Scope selects whose feedback an analytics request covers: one user, one
// food item, or the whole restaurant.
type Scope struct {
	UserID     *uint
	FoodItemID *uint
}

// GlobalScope covers all feedback.
func GlobalScope() Scope { return Scope{} }

// UserScope covers feedback authored by one user, across all food items.
func UserScope(id uint) Scope { return Scope{UserID: &id} }

// ItemScope covers feedback owned by one food item.
func ItemScope(id uint) Scope { return Scope{FoodItemID: &id} }

// ParseScopeID validates a raw identifier from the request path. IDs are
// positive integers; anything else is rejected with ErrInvalidScope.
func ParseScopeID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, raw)
	}
	return uint(id), nil
}

// Aggregator collects the feedback records an analytics request operates on.
type Aggregator struct {
	store store.Store
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Collect returns the scope's feedback ordered oldest first, with food item
// names resolved. No feedback is an empty slice, not an error; callers branch
// on emptiness. Store failures propagate.
func (a *Aggregator) Collect(ctx context.Context, scope Scope) ([]models.FeedbackRecord, error) {
	records, err := a.store.QueryFeedback(ctx, store.FeedbackFilter{
		UserID:     scope.UserID,
		FoodItemID: scope.FoodItemID,
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
