package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/queue"
)

// GuestHandler serves the browse and order endpoints. Browse routes
// are public; order and booking creation sit behind JWTAuth.
type GuestHandler struct {
	Store   *Store
	Publish func(queue.OrderStatusEvent) // status event hook, nil when no broker is configured
}

// Health is a simple health-check endpoint.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ----- public browse -----

func (h *GuestHandler) GetRooms(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Rooms())
}

func (h *GuestHandler) GetTables(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Tables())
}

func (h *GuestHandler) GetMenu(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Menu())
}

// GetBookings returns every booking; the client filters by user id on
// its side, mirroring the production API.
func (h *GuestHandler) GetBookings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Bookings())
}

func (h *GuestHandler) GetOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Orders())
}

// ----- authenticated writes -----

// CreateOrder handles POST /api/orders. The draft must reference
// exactly one destination and carry at least one item; the
// authenticated user overrides whatever user id the body claims.
func (h *GuestHandler) CreateOrder(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var draft model.OrderDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(draft.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order has no items"})
	}
	hasTable := draft.TableID != nil && *draft.TableID != 0
	hasRoom := draft.RoomID != nil && *draft.RoomID != 0
	if hasTable == hasRoom {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order needs exactly one destination"})
	}
	draft.UserID = uid
	order := h.Store.CreateOrder(draft)
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/orders/:id. Guests may only cancel
// their own PENDING orders; the status transition is published to the
// broker when one is configured.
func (h *GuestHandler) UpdateOrder(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	order, err := h.Store.UpdateOrderStatus(id, uid, body.Status)
	if err != nil {
		switch err {
		case ErrNoSuchOrder:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case ErrNotOrderOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	if h.Publish != nil {
		h.Publish(orderStatusEvent(order))
	}
	return c.JSON(http.StatusOK, order)
}

// CreateBooking handles POST /api/bookings.
func (h *GuestHandler) CreateBooking(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RoomID   uint64    `json:"roomId"`
		CheckIn  time.Time `json:"checkIn"`
		CheckOut time.Time `json:"checkOut"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId required"})
	}
	booking, err := h.Store.CreateBooking(uid, body.RoomID, body.CheckIn, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no such room"})
	}
	return c.JSON(http.StatusCreated, booking)
}
