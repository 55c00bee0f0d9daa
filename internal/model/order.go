package model

import "time"

// Order statuses as used by the hotel API. New orders are created as
// PENDING; guests may cancel an order while it is still PENDING.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderItem is one line of an order: a menu item reference with the
// quantity and the price captured at the time the item entered the cart.
type OrderItem struct {
	MenuItemID uint64  `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// Order is an order as returned by the hotel API. Exactly one of
// TableID or RoomID is set, matching the chosen destination.
//
// Fields:
//  ID          – primary key identifier of the order.
//  UserID      – the guest who placed the order.
//  TableID     – destination table, nil for room-service orders.
//  RoomID      – destination room, nil for table orders.
//  Status      – one of the OrderStatus* constants.
//  Total       – grand total including tax, rounded to two decimals.
//  Description – free-form notes entered by the guest.
//  Items       – order lines.
//  CreatedAt   – server-side creation timestamp.
type Order struct {
	ID          uint64      `json:"id"`
	UserID      uint64      `json:"userId"`
	TableID     *uint64     `json:"tableId,omitempty"`
	RoomID      *uint64     `json:"roomId,omitempty"`
	Status      string      `json:"status"`
	Total       float64     `json:"total"`
	Description string      `json:"description"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderDraft is the request body for POST /api/orders. It is built from
// a cart snapshot at submission time and never persisted locally.
type OrderDraft struct {
	UserID      uint64      `json:"userId"`
	TableID     *uint64     `json:"tableId"`
	RoomID      *uint64     `json:"roomId"`
	Status      string      `json:"status"`
	Total       float64     `json:"total"`
	Description string      `json:"description"`
	Items       []OrderItem `json:"items"`
}
