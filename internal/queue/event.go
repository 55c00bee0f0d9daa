// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderStatusEvent is published by the hotel backend whenever an order
// changes status (PREPARING, DELIVERED, CANCELLED). It carries enough
// information for the client to notify the guest and refresh its order
// cache without polling.
type OrderStatusEvent struct {
	OrderID   uint64  `json:"order_id"`
	UserID    uint64  `json:"user_id"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	UpdatedAt string  `json:"updated_at"`
}
