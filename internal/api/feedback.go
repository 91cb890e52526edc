package api

import (
	"errors"
	"net/http"

	"brigade/internal/analytics"
	"brigade/internal/models"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateFeedback records a customer's rating and comment for a food item.
func (s *Server) CreateFeedback(c *gin.Context) {
	var feedback models.FeedbackRecord
	if err := c.ShouldBindJSON(&feedback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateFeedback(&feedback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.store.GetFoodItem(c.Request.Context(), feedback.FoodItemID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown food item"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("loading food item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if err := s.store.CreateFeedback(c.Request.Context(), &feedback); err != nil {
		s.log.WithError(err).Error("creating feedback failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	feedback.FoodItemName = item.Name
	c.JSON(http.StatusCreated, feedback)
}

// ListFeedback returns feedback, optionally filtered to one food item or one
// user via query parameters.
func (s *Server) ListFeedback(c *gin.Context) {
	scope, ok := s.scopeFromQuery(c)
	if !ok {
		return
	}

	records, err := s.aggregator.Collect(c.Request.Context(), scope)
	if err != nil {
		s.log.WithError(err).Error("collecting feedback failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// ReplyToFeedback attaches the kitchen's reply to one feedback record.
func (s *Server) ReplyToFeedback(c *gin.Context) {
	id, err := analytics.ParseScopeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}

	var body struct {
		Reply string `json:"reply" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.store.AttachReply(c.Request.Context(), id, body.Reply)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("attaching reply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// scopeFromQuery builds an analytics scope from optional foodItemId / userId
// query parameters. Malformed identifiers are rejected before any store work.
func (s *Server) scopeFromQuery(c *gin.Context) (analytics.Scope, bool) {
	scope := analytics.GlobalScope()
	if raw := c.Query("foodItemId"); raw != "" {
		id, err := analytics.ParseScopeID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid foodItemId"})
			return scope, false
		}
		scope = analytics.ItemScope(id)
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := analytics.ParseScopeID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return scope, false
		}
		scope.UserID = &id
	}
	return scope, true
}
