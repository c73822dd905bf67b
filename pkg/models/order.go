package models

import "time"

// Order statuses. StatusUserDeleted is synthetic: it is only ever written by
// the consistency handler when a user.deleted event arrives.
const (
	StatusPending     = "Pending"
	StatusUserDeleted = "User Deleted"
)

// Order represents an order owned by the order service. UserName and
// UserEmail are denormalized copies of the user snapshot taken at creation
// time; they are not kept live.
type Order struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	UserName    string    `json:"user_name" db:"user_name"`
	UserEmail   string    `json:"user_email" db:"user_email"`
	ProductName string    `json:"product_name" db:"product_name"`
	Amount      float64   `json:"amount" db:"amount"`
	OrderDate   time.Time `json:"order_date" db:"order_date"`
	Status      string    `json:"status" db:"status"`
}

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	UserID      int     `json:"user_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

// UpdateOrderRequest is the request body for updating an order.
type UpdateOrderRequest struct {
	ProductName string  `json:"product_name" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Status      string  `json:"status" binding:"required"`
}

// UserSnapshot is the slice of user data the order service fetches from the
// user service when an order is created.
type UserSnapshot struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
