package orders

import (
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the Gin router for the order service.
func NewRouter(h *OrderHandler) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(middleware.CorrelationID())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Order routes
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.PUT("/orders/:id", h.UpdateOrder)
	r.DELETE("/orders/:id", h.DeleteOrder)
	r.GET("/users/:userId/orders", h.ListOrdersByUser)

	return r
}
