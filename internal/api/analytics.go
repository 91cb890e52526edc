package api

import (
	"errors"
	"fmt"
	"net/http"

	"brigade/internal/analytics"
	"brigade/internal/models"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
)

// GlobalSatisfaction returns the restaurant-wide satisfaction profile.
func (s *Server) GlobalSatisfaction(c *gin.Context) {
	s.satisfaction(c, analytics.GlobalScope(), "all")
}

// ItemSatisfaction returns the satisfaction profile for one food item.
func (s *Server) ItemSatisfaction(c *gin.Context) {
	id, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food item id"})
		return
	}
	s.satisfaction(c, analytics.ItemScope(id), fmt.Sprintf("item:%d", id))
}

// UserSatisfaction returns the satisfaction profile for one customer.
func (s *Server) UserSatisfaction(c *gin.Context) {
	id, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	s.satisfaction(c, analytics.UserScope(id), fmt.Sprintf("user:%d", id))
}

// satisfaction collects the scope's feedback and scores it. The response is
// always a well-formed profile; with no feedback the score field is absent.
func (s *Server) satisfaction(c *gin.Context, scope analytics.Scope, scopeID string) {
	records, err := s.aggregator.Collect(c.Request.Context(), scope)
	if err != nil {
		s.log.WithError(err).Error("collecting feedback failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, s.scorer.Score(c.Request.Context(), scopeID, records))
}

// Trends returns the time-bucketed feedback series, optionally scoped by the
// same query parameters as ListFeedback. Default granularity is month.
func (s *Server) Trends(c *gin.Context) {
	scope, ok := s.scopeFromQuery(c)
	if !ok {
		return
	}
	period := models.ParseTrendPeriod(c.Query("period"))

	records, err := s.aggregator.Collect(c.Request.Context(), scope)
	if err != nil {
		s.log.WithError(err).Error("collecting feedback failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period":  period,
		"buckets": s.bucketer.Buckets(c.Request.Context(), records, period),
	})
}

// Recommend synthesizes chef-facing cooking guidance for one customer. An
// explicit orderId pins the current order; otherwise the customer's oldest
// open order is used, and with no open order the recommendation is generated
// without current-order context.
func (s *Server) Recommend(c *gin.Context) {
	userID, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	lines, ok := s.currentOrderLines(c, userID)
	if !ok {
		return
	}

	recommendation, err := s.synthesizer.Synthesize(c.Request.Context(), userID, lines)
	if err != nil {
		s.log.WithError(err).Error("synthesizing recommendation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, recommendation)
}

// currentOrderLines resolves the order the recommendation should target into
// generator-ready lines with item display names.
func (s *Server) currentOrderLines(c *gin.Context, userID uint) ([]analytics.OrderLine, bool) {
	ctx := c.Request.Context()

	var order *models.Order
	if raw := c.Query("orderId"); raw != "" {
		orderID, err := analytics.ParseScopeID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderId"})
			return nil, false
		}
		order, err = s.store.GetOrder(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return nil, false
		}
		if err != nil {
			s.log.WithError(err).Error("loading order failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return nil, false
		}
		if order.UserID != userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order does not belong to this user"})
			return nil, false
		}
	} else {
		orders, err := s.store.QueryOrders(ctx, store.OrderFilter{UserID: &userID, OpenOnly: true})
		if err != nil {
			s.log.WithError(err).Error("querying open orders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return nil, false
		}
		if len(orders) > 0 {
			order = &orders[0]
		}
	}
	if order == nil {
		return nil, true
	}

	items, err := s.store.ListFoodItems(ctx)
	if err != nil {
		s.log.WithError(err).Error("listing menu failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return nil, false
	}
	names := make(map[uint]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	lines := make([]analytics.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		name := names[item.FoodItemID]
		if name == "" {
			name = fmt.Sprintf("item #%d", item.FoodItemID)
		}
		lines = append(lines, analytics.OrderLine{Name: name, Quantity: item.Quantity})
	}
	return lines, true
}
