package model

import (
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customer_id"`
	Total        float64     `json:"total"`
	Currency     string      `json:"currency"`
	Status       OrderStatus `json:"status"`
	DiscountCode string      `json:"discount_code,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
