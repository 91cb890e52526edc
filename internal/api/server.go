package api

import (
	"net/http"

	"brigade/internal/analytics"
	"brigade/internal/monitoring"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server is the HTTP surface for customers, chefs, and the analytics
// consumers.
type Server struct {
	Router      *gin.Engine
	store       store.Store
	aggregator  *analytics.Aggregator
	scorer      *analytics.Scorer
	bucketer    *analytics.Bucketer
	synthesizer *analytics.Synthesizer
	hub         *QueueHub
	log         *logrus.Logger
}

// NewServer wires the router and all route handlers.
func NewServer(
	st store.Store,
	aggregator *analytics.Aggregator,
	scorer *analytics.Scorer,
	bucketer *analytics.Bucketer,
	synthesizer *analytics.Synthesizer,
	log *logrus.Logger,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), monitoring.GinMiddleware())

	s := &Server{
		Router:      router,
		store:       st,
		aggregator:  aggregator,
		scorer:      scorer,
		bucketer:    bucketer,
		synthesizer: synthesizer,
		hub:         NewQueueHub(log),
		log:         log,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live kitchen queue for chef displays
	s.Router.GET("/ws/kitchen", s.handleKitchenSocket)

	v1 := s.Router.Group("/api/v1")
	{
		v1.GET("/menu", s.ListMenu)

		// Feedback
		v1.POST("/feedback", s.CreateFeedback)
		v1.GET("/feedback", s.ListFeedback)
		v1.POST("/feedback/:id/reply", s.ReplyToFeedback)

		// Analytics
		v1.GET("/analytics/satisfaction", s.GlobalSatisfaction)
		v1.GET("/analytics/items/:id/satisfaction", s.ItemSatisfaction)
		v1.GET("/analytics/users/:id/satisfaction", s.UserSatisfaction)
		v1.GET("/analytics/trends", s.Trends)
		v1.GET("/analytics/users/:id/recommendation", s.Recommend)

		// Orders
		v1.POST("/orders", s.CreateOrder)
		v1.GET("/orders/queue", s.OrderQueue)
		v1.GET("/orders/:id", s.GetOrder)
		v1.PUT("/orders/:id/status", s.UpdateOrderStatus)
	}
}

// ListMenu returns all food items.
func (s *Server) ListMenu(c *gin.Context) {
	items, err := s.store.ListFoodItems(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Error("listing menu failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, items)
}
