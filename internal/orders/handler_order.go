package orders

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/middleware"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/models"

	"github.com/gin-gonic/gin"
)

const orderColumns = "id, user_id, user_name, user_email, product_name, amount, order_date, status"

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	DB    *sql.DB
	Users UserFetcher
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(db *sql.DB, users UserFetcher) *OrderHandler {
	return &OrderHandler{DB: db, Users: users}
}

// CreateOrder creates an order, fetching the user snapshot synchronously
// from the user service and denormalizing name/email into the order row.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[Order] CreateOrder correlation_id=%s", correlationID)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.Users.FetchUser(c.Request.Context(), req.UserID)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		log.Printf("[Order] Error fetching user %d: %v correlation_id=%s", req.UserID, err, correlationID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch user"})
		return
	}

	order := models.Order{
		UserID:      snapshot.ID,
		UserName:    snapshot.Name,
		UserEmail:   snapshot.Email,
		ProductName: req.ProductName,
		Amount:      req.Amount,
		OrderDate:   time.Now(),
		Status:      models.StatusPending,
	}

	err = h.DB.QueryRow(
		`INSERT INTO orders (user_id, user_name, user_email, product_name, amount, order_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		order.UserID, order.UserName, order.UserEmail, order.ProductName,
		order.Amount, order.OrderDate, order.Status,
	).Scan(&order.ID)
	if err != nil {
		log.Printf("[Order] Error creating order: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	log.Printf("[Order] Order created: id=%d user_id=%d correlation_id=%s", order.ID, order.UserID, correlationID)
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns a single order by ID.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var order models.Order
	err = h.DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id = $1", id).
		Scan(&order.ID, &order.UserID, &order.UserName, &order.UserEmail,
			&order.ProductName, &order.Amount, &order.OrderDate, &order.Status)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders returns all orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + orderColumns + " FROM orders ORDER BY order_date DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	defer rows.Close()

	c.JSON(http.StatusOK, scanOrders(rows))
}

// ListOrdersByUser returns all orders belonging to one user.
func (h *OrderHandler) ListOrdersByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	rows, err := h.DB.Query("SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY order_date DESC", userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	defer rows.Close()

	c.JSON(http.StatusOK, scanOrders(rows))
}

// UpdateOrder updates product, amount and status. No event is published.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	err = h.DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id = $1", id).
		Scan(&order.ID, &order.UserID, &order.UserName, &order.UserEmail,
			&order.ProductName, &order.Amount, &order.OrderDate, &order.Status)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	order.ProductName = req.ProductName
	order.Amount = req.Amount
	order.Status = req.Status

	_, err = h.DB.Exec(
		"UPDATE orders SET product_name = $1, amount = $2, status = $3 WHERE id = $4",
		order.ProductName, order.Amount, order.Status, order.ID,
	)
	if err != nil {
		log.Printf("[Order] Error updating order: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	log.Printf("[Order] Order updated: id=%d correlation_id=%s", order.ID, correlationID)
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	res, err := h.DB.Exec("DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		log.Printf("[Order] Error deleting order: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	log.Printf("[Order] Order deleted: id=%d correlation_id=%s", id, correlationID)
	c.Status(http.StatusNoContent)
}

func scanOrders(rows *sql.Rows) []models.Order {
	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserName, &o.UserEmail,
			&o.ProductName, &o.Amount, &o.OrderDate, &o.Status); err != nil {
			continue
		}
		orders = append(orders, o)
	}
	return orders
}
