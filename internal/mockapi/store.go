// Package mockapi implements an in-memory hotel API serving every
// endpoint the guest client consumes. It backs cmd/mockserver for
// local development and is spun up inside httptest servers by the
// integration tests. State lives in memory only; restarting the server
// resets it to the seed fixtures.
package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-guest-client/internal/model"
)

// Sentinel errors returned by the store. Handlers translate these into
// HTTP responses.
var (
	ErrEmailExists   = errors.New("email already exists")
	ErrNoSuchUser    = errors.New("no such user")
	ErrNoSuchOrder   = errors.New("no such order")
	ErrNotOrderOwner = errors.New("order belongs to another user")
)

// userRecord couples the public user with its password hash. The hash
// never leaves the store.
type userRecord struct {
	user         model.User
	passwordHash string
}

// Store holds all fixture state behind one mutex. IDs are assigned
// sequentially per collection.
type Store struct {
	mu       sync.Mutex
	users    []userRecord
	rooms    []model.Room
	tables   []model.Table
	menu     []model.MenuItem
	bookings []model.Booking
	orders   []model.Order
	nextID   uint64
}

// NewStore returns a store pre-seeded with rooms, tables and a menu so
// the client has something to browse before anyone registers.
func NewStore() *Store {
	s := &Store{nextID: 1000}
	s.rooms = []model.Room{
		{ID: 1, Number: "101", Name: "Garden View", Price: 120},
		{ID: 2, Number: "102", Name: "Sea View", Price: 180},
		{ID: 3, Number: "201", Name: "Family Suite", Price: 260},
	}
	s.tables = []model.Table{
		{ID: 1, Number: "T1", Capacity: 2, Available: true},
		{ID: 2, Number: "T2", Capacity: 4, Available: true},
		{ID: 3, Number: "T3", Capacity: 4, Available: false, Status: model.TableStatusOccupied},
		{ID: 4, Number: "T4", Capacity: 6, Available: true},
	}
	s.menu = []model.MenuItem{
		{ID: 1, Name: "Margherita Pizza", Price: 9.5, Category: "mains"},
		{ID: 2, Name: "Caesar Salad", Price: 7, Category: "starters"},
		{ID: 3, Name: "Grilled Salmon", Price: 16.5, Category: "mains"},
		{ID: 4, Name: "Cheesecake", Price: 5.5, Category: "desserts"},
		{ID: 5, Name: "Fresh Orange Juice", Price: 3.5, Category: "drinks"},
	}
	return s
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

// CreateUser registers a new user. Emails are unique and normalized to
// lower case.
func (s *Store) CreateUser(name, email, passwordHash string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.user.Email == email {
			return model.User{}, ErrEmailExists
		}
	}
	u := model.User{ID: s.id(), Name: name, Email: email, Role: "GUEST"}
	s.users = append(s.users, userRecord{user: u, passwordHash: passwordHash})
	return u, nil
}

// UserByEmail fetches a user and its password hash by normalized email.
func (s *Store) UserByEmail(email string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.user.Email == email {
			return r.user, r.passwordHash, nil
		}
	}
	return model.User{}, "", ErrNoSuchUser
}

// Rooms, Tables, Menu, Bookings and Orders return copies of the
// respective collections.
func (s *Store) Rooms() []model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Room(nil), s.rooms...)
}

func (s *Store) Tables() []model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Table(nil), s.tables...)
}

func (s *Store) Menu() []model.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.MenuItem(nil), s.menu...)
}

func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Booking(nil), s.bookings...)
}

func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.orders...)
}

// CreateBooking records a booking. Bookings are created CONFIRMED so a
// freshly booked room is immediately usable as a room-service
// destination in local development.
func (s *Store) CreateBooking(userID, roomID uint64, checkIn, checkOut time.Time) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var room *model.Room
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			room = &s.rooms[i]
			break
		}
	}
	if room == nil {
		return model.Booking{}, errors.New("no such room")
	}
	b := model.Booking{
		ID:       s.id(),
		UserID:   userID,
		Room:     *room,
		Status:   model.BookingStatusConfirmed,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	s.bookings = append(s.bookings, b)
	return b, nil
}

// CreateOrder records an order from a draft and stamps id, status and
// creation time.
func (s *Store) CreateOrder(draft model.OrderDraft) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := model.Order{
		ID:          s.id(),
		UserID:      draft.UserID,
		TableID:     draft.TableID,
		RoomID:      draft.RoomID,
		Status:      model.OrderStatusPending,
		Total:       draft.Total,
		Description: draft.Description,
		Items:       draft.Items,
		CreatedAt:   time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	return o
}

// UpdateOrderStatus changes the status of an order owned by userID.
func (s *Store) UpdateOrderStatus(id, userID uint64, status string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			if s.orders[i].UserID != userID {
				return model.Order{}, ErrNotOrderOwner
			}
			s.orders[i].Status = status
			return s.orders[i], nil
		}
	}
	return model.Order{}, ErrNoSuchOrder
}
