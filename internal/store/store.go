package store

import (
	"context"
	"errors"

	"brigade/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Any other
// error from a Store is a hard storage failure and propagates to the caller.
var ErrNotFound = errors.New("record not found")

// FeedbackFilter restricts a feedback query to one user, one food item, or
// neither (global).
type FeedbackFilter struct {
	UserID     *uint
	FoodItemID *uint
}

// OrderFilter restricts an order query.
type OrderFilter struct {
	UserID   *uint
	OpenOnly bool
}

// Store is the persistence boundary consumed by the analytics core and the
// HTTP surface. Feedback is read-only from the analytics side except for the
// single-row reply attachment.
type Store interface {
	QueryFeedback(ctx context.Context, filter FeedbackFilter) ([]models.FeedbackRecord, error)
	CreateFeedback(ctx context.Context, f *models.FeedbackRecord) error
	AttachReply(ctx context.Context, feedbackID uint, reply string) (*models.FeedbackRecord, error)

	QueryOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)

	ListFoodItems(ctx context.Context) ([]models.FoodItem, error)
	GetFoodItem(ctx context.Context, id uint) (*models.FoodItem, error)
}
