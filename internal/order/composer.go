// Package order turns a cart into a submitted order. The composer
// owns the destination selection and the submission lifecycle; it is
// the only writer of its own state and the only caller of the cart's
// Clear operation.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/iliyamo/hotel-guest-client/internal/api"
	"github.com/iliyamo/hotel-guest-client/internal/cart"
	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/notify"
	"github.com/iliyamo/hotel-guest-client/internal/session"
)

// TaxRate is applied on top of the cart subtotal.
const TaxRate = 0.05

// DestinationKind selects where the order is delivered: a restaurant
// table for walk-in dining or a booked room for room service.
type DestinationKind string

const (
	DestinationTable DestinationKind = "table"
	DestinationRoom  DestinationKind = "room"
)

// Cache keys and endpoints the composer reads and writes.
const (
	tablesEndpoint   = "/api/tables"
	tablesCacheKey   = "tables"
	bookingsEndpoint = "/api/bookings"
	bookingsCacheKey = "bookings"
	ordersEndpoint   = "/api/orders"
	ordersCacheKey   = "orders"
)

// Composer orchestrates cart, session, fetcher and mutator into order
// submission. Destinations default to table; switching the kind always
// resets the selected id so a stale table id can never be submitted
// under a room destination.
type Composer struct {
	mu       sync.Mutex
	sess     *session.Store
	cart     *cart.Store
	fetcher  *api.Fetcher
	client   *api.Client
	bus      *api.Bus
	submit   *api.Mutator
	notifier *notify.Notifier

	kind       DestinationKind
	destID     uint64
	notes      string
	submitting bool
	history    []model.Order
}

// New builds a Composer. notifier may be nil; notifications are then
// skipped.
func New(sess *session.Store, crt *cart.Store, fetcher *api.Fetcher, client *api.Client, bus *api.Bus, notifier *notify.Notifier) *Composer {
	return &Composer{
		sess:     sess,
		cart:     crt,
		fetcher:  fetcher,
		client:   client,
		bus:      bus,
		notifier: notifier,
		submit: api.NewMutator(client, bus, ordersEndpoint, api.Options{
			RequireAuth: true,
			Invalidates: []string{ordersCacheKey},
		}),
		kind: DestinationTable,
	}
}

// SetDestinationKind switches between table and room delivery and
// forces the destination to be re-selected.
func (c *Composer) SetDestinationKind(kind DestinationKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == kind {
		return
	}
	c.kind = kind
	c.destID = 0
}

// SetDestination selects the concrete table or room id.
func (c *Composer) SetDestination(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destID = id
}

// SetNotes records free-form order notes.
func (c *Composer) SetNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = notes
}

// Destination returns the current kind and selected id (0 = unset).
func (c *Composer) Destination() (DestinationKind, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind, c.destID
}

// IsSubmitting reports whether a submission is in flight.
func (c *Composer) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Orders returns the local order history, newest first.
func (c *Composer) Orders() []model.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Order, len(c.history))
	copy(out, c.history)
	return out
}

// Subtotal, Tax and Total are kept at full precision for display
// arithmetic; rounding to two decimals happens only at submission.
func (c *Composer) Subtotal() float64 { return c.cart.CartTotal() }
func (c *Composer) Tax() float64      { return c.Subtotal() * TaxRate }
func (c *Composer) Total() float64    { return c.Subtotal() + c.Tax() }

// AvailableTables lists tables currently free to take an order.
func (c *Composer) AvailableTables(ctx context.Context) ([]model.Table, error) {
	tables, err := api.FetchAs[[]model.Table](ctx, c.fetcher, tablesEndpoint, tablesCacheKey)
	if err != nil {
		return nil, err
	}
	out := tables[:0]
	for _, t := range tables {
		if t.IsFree() {
			out = append(out, t)
		}
	}
	return out, nil
}

// ConfirmedBookings lists the session user's CONFIRMED bookings, the
// only ones whose rooms are legal room-service destinations. The
// bookings endpoint returns everyone's bookings; filtering happens
// here.
func (c *Composer) ConfirmedBookings(ctx context.Context) ([]model.Booking, error) {
	user := c.sess.User()
	if user == nil {
		return nil, nil
	}
	bookings, err := api.FetchAs[[]model.Booking](ctx, c.fetcher, bookingsEndpoint, bookingsCacheKey)
	if err != nil {
		return nil, err
	}
	out := bookings[:0]
	for _, b := range bookings {
		if b.IsConfirmedFor(user.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// CanSubmit is the readiness predicate: non-empty cart, authenticated
// user, a chosen destination, and a valid destination universe for the
// chosen kind (an available table, or a confirmed booking for room
// service). Read failures count as not ready.
func (c *Composer) CanSubmit(ctx context.Context) bool {
	c.mu.Lock()
	kind, destID := c.kind, c.destID
	c.mu.Unlock()

	if c.cart.CartCount() == 0 || !c.sess.IsAuthenticated() || destID == 0 {
		return false
	}
	switch kind {
	case DestinationRoom:
		bookings, err := c.ConfirmedBookings(ctx)
		return err == nil && len(bookings) > 0
	case DestinationTable:
		tables, err := c.AvailableTables(ctx)
		return err == nil && len(tables) > 0
	default:
		return false
	}
}

// PlaceOrder validates, snapshots the cart into an order draft and
// submits it. On success the cart is cleared, the created order is
// prepended to the local history and the destination and notes are
// reset. On failure everything is left in place so the guest can
// retry. Duplicate submissions are suppressed while one is in flight:
// the in-flight flag is claimed in the same critical section as the
// check, before validation starts, and rolled back when validation
// fails.
func (c *Composer) PlaceOrder(ctx context.Context) (*model.Order, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, &api.ValidationError{Reason: "an order is already being placed"}
	}
	c.submitting = true
	kind, destID, notes := c.kind, c.destID, c.notes
	c.mu.Unlock()

	if c.cart.CartCount() == 0 || !c.CanSubmit(ctx) {
		c.setSubmitting(false)
		err := &api.ValidationError{Reason: "please select a destination and add items to your cart"}
		c.toast(notify.Error, err.Reason)
		return nil, err
	}

	user := c.sess.User()
	if user == nil {
		// A persisted token without a user record passes the
		// authentication check but cannot own an order.
		c.setSubmitting(false)
		err := &api.ValidationError{Reason: "your session is incomplete, please sign in again"}
		c.toast(notify.Error, err.Reason)
		return nil, err
	}
	draft := c.buildDraft(user.ID, kind, destID, notes)

	data, err := c.submit.Do(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.toast(notify.Error, api.Message(err))
		return nil, err
	}

	var created model.Order
	if err := json.Unmarshal(data, &created); err != nil {
		log.Printf("order: created order has unexpected shape: %v", err)
	}
	c.cart.Clear()
	c.history = append([]model.Order{created}, c.history...)
	c.destID = 0
	c.notes = ""
	c.toast(notify.Success, "order placed successfully")
	return &created, nil
}

// CancelOrder asks the API to cancel a PENDING order and invalidates
// the orders cache on success.
func (c *Composer) CancelOrder(ctx context.Context, id uint64) error {
	m := api.NewMutator(c.client, c.bus, fmt.Sprintf("%s/%d", ordersEndpoint, id), api.Options{
		Method:      http.MethodPut,
		RequireAuth: true,
		Invalidates: []string{ordersCacheKey},
	})
	_, err := m.Do(ctx, map[string]string{"status": model.OrderStatusCancelled})
	if err != nil {
		c.toast(notify.Error, api.Message(err))
		return err
	}
	c.mu.Lock()
	for i := range c.history {
		if c.history[i].ID == id {
			c.history[i].Status = model.OrderStatusCancelled
		}
	}
	c.mu.Unlock()
	c.toast(notify.Success, "order cancelled")
	return nil
}

// buildDraft snapshots the current cart into the submission payload.
// The total is rounded to two decimals here and nowhere else.
func (c *Composer) buildDraft(userID uint64, kind DestinationKind, destID uint64, notes string) model.OrderDraft {
	items := c.cart.Items()
	lines := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.OrderItem{MenuItemID: it.ID, Quantity: it.Quantity, Price: it.Price})
	}
	draft := model.OrderDraft{
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Total:       round2(c.Total()),
		Description: notes,
		Items:       lines,
	}
	if kind == DestinationRoom {
		draft.RoomID = &destID
	} else {
		draft.TableID = &destID
	}
	return draft
}

func (c *Composer) setSubmitting(v bool) {
	c.mu.Lock()
	c.submitting = v
	c.mu.Unlock()
}

func (c *Composer) toast(level notify.Level, message string) {
	if c.notifier != nil {
		c.notifier.Publish(level, message)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
