package model

import "time"

// Booking statuses as used by the hotel API. Only CONFIRMED bookings
// make their room a legal destination for room-service orders.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking represents a room booking as returned by GET /api/bookings.
// The endpoint returns every booking; the client filters by user id on
// its side, so UserID must always be populated by the server.
//
// Fields:
//  ID       – primary key identifier of the booking.
//  UserID   – owner of the booking.
//  Room     – the booked room, embedded so the client can offer it as a
//             room-service destination without an extra lookup.
//  Status   – one of the BookingStatus* constants.
//  CheckIn  – start of the stay.
//  CheckOut – end of the stay.
type Booking struct {
	ID       uint64    `json:"id"`
	UserID   uint64    `json:"userId"`
	Room     Room      `json:"room"`
	Status   string    `json:"status"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// IsConfirmedFor reports whether this booking entitles the given user
// to order room service to its room.
func (b Booking) IsConfirmedFor(userID uint64) bool {
	return b.UserID == userID && b.Status == BookingStatusConfirmed
}
