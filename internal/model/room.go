package model

// Room is a hotel room as listed by GET /api/rooms. Rooms become legal
// order destinations only through a CONFIRMED booking, never directly.
type Room struct {
	ID     uint64  `json:"id"`
	Number string  `json:"number"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}
