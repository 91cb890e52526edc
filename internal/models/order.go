package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrIllegalTransition marks an order status change outside the legal graph.
var ErrIllegalTransition = errors.New("illegal order status transition")

// Order represents a customer order moving through the kitchen queue.
type Order struct {
	ID          uint        `gorm:"primary_key" json:"id"`
	UserID      uint        `gorm:"index" json:"userId"`
	Items       []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Status      string      `gorm:"index" json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         uint    `gorm:"primary_key" json:"-"`
	OrderID    uint    `gorm:"index" json:"-"`
	FoodItemID uint    `json:"foodItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// FoodItem is a dish on the menu. Feedback records are owned by the item
// they review.
type FoodItem struct {
	ID        uint    `gorm:"primary_key" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available bool    `gorm:"default:true" json:"available"`
}

// OrderStatus represents the possible states of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
}

// ValidateTransition checks that an order status change follows the
// pending -> preparing -> ready -> completed graph (cancellation allowed
// until the order is ready).
func ValidateTransition(from, to OrderStatus) error {
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

// IsOpen reports whether the order still belongs on the kitchen queue.
func (o *Order) IsOpen() bool {
	switch OrderStatus(o.Status) {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}

// ValidateOrder checks an incoming order before it is persisted.
func ValidateOrder(o *Order) error {
	if o.UserID == 0 {
		return fmt.Errorf("order must reference a user")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for _, item := range o.Items {
		if item.FoodItemID == 0 {
			return fmt.Errorf("order item must reference a food item")
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("order item quantity must be positive")
		}
	}
	return nil
}

// Total computes the order amount from its items.
func (o *Order) Total() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}
