package api

import (
	"errors"
	"net/http"

	"brigade/internal/analytics"
	"brigade/internal/models"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateOrder accepts a new customer order and places it on the kitchen
// queue. Item prices default to the menu price when the client omits them.
func (s *Server) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateOrder(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for i := range order.Items {
		item, err := s.store.GetFoodItem(c.Request.Context(), order.Items[i].FoodItemID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown food item in order"})
			return
		}
		if err != nil {
			s.log.WithError(err).Error("loading food item failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		if order.Items[i].Price == 0 {
			order.Items[i].Price = item.Price
		}
	}

	if err := s.store.CreateOrder(c.Request.Context(), &order); err != nil {
		s.log.WithError(err).Error("creating order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	s.broadcastQueue(c)
	c.JSON(http.StatusCreated, order)
}

// OrderQueue returns all open orders, oldest first, for chef displays.
func (s *Server) OrderQueue(c *gin.Context) {
	orders, err := s.store.QueryOrders(c.Request.Context(), store.OrderFilter{OpenOnly: true})
	if err != nil {
		s.log.WithError(err).Error("querying order queue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with its items.
func (s *Server) GetOrder(c *gin.Context) {
	id, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := s.store.GetOrder(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("loading order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order along its lifecycle, rejecting illegal
// transitions, and notifies connected chef displays.
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	id, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.store.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(body.Status))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case errors.Is(err, models.ErrIllegalTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.WithError(err).Error("updating order status failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	s.broadcastQueue(c)
	c.JSON(http.StatusOK, order)
}

// broadcastQueue pushes the current open-order queue to connected chef
// displays. Failures are logged only; a broken display feed must not fail
// the originating request.
func (s *Server) broadcastQueue(c *gin.Context) {
	orders, err := s.store.QueryOrders(c.Request.Context(), store.OrderFilter{OpenOnly: true})
	if err != nil {
		s.log.WithError(err).Warn("queue broadcast skipped")
		return
	}
	s.hub.Broadcast(QueueUpdate{Type: "queue", Orders: orders})
}
