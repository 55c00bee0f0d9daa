// Package cart holds the guest's selected menu items. The cart is
// purely local state: it never talks to the network and is persisted
// to its own namespace so its contents survive reloads independent of
// the session.
package cart

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/storage"
)

// Item is one cart line. Price is captured when the item is added and
// used for all total arithmetic afterwards; a later menu price change
// does not affect a cart already holding the item.
type Item struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// document is the persisted shape of the cart-storage namespace.
type document struct {
	Cart []Item `json:"cart"`
}

// Store owns the cart. At most one entry exists per item id; insertion
// order is preserved for display only. All operations are local and
// synchronous.
type Store struct {
	mu    sync.Mutex
	kv    storage.KV
	items []Item
}

// New restores the persisted cart from kv, starting empty when nothing
// was persisted yet or the document is corrupt.
func New(kv storage.KV) *Store {
	s := &Store{kv: kv}
	data, err := kv.Get(storage.CartNamespace)
	if err == nil {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Printf("cart: discarding corrupt persisted state: %v", err)
		} else {
			s.items = doc.Cart
		}
	}
	return s
}

// AddToCart adds item with quantity 1, or bumps the quantity when the
// id is already present.
func (s *Store) AddToCart(item model.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			s.persistLocked()
			return
		}
	}
	s.items = append(s.items, Item{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1})
	s.persistLocked()
}

// RemoveFromCart deletes the entry with the given id; removing an
// absent id is a no-op.
func (s *Store) RemoveFromCart(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// UpdateQuantity sets the quantity of an entry. A quantity of zero or
// less removes the entry. The value is not clamped against the prior
// quantity; callers validate decrements (the menu view disables the
// minus button at quantity 1).
func (s *Store) UpdateQuantity(id uint64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		s.removeLocked(id)
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = qty
			s.persistLocked()
			return
		}
	}
}

// Clear empties the cart. Used after a successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

// Items returns a copy of the cart lines in display order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// CartTotal is the sum of price × quantity over all entries, at the
// prices captured when the items were added.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// CartCount is the sum of all quantities.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

func (s *Store) removeLocked(id uint64) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// persistLocked writes the cart through to its namespace. Persistence
// failures are logged, not fatal.
func (s *Store) persistLocked() {
	data, err := json.Marshal(document{Cart: s.items})
	if err != nil {
		log.Printf("cart: marshal state: %v", err)
		return
	}
	if err := s.kv.Put(storage.CartNamespace, data); err != nil {
		log.Printf("cart: persist state: %v", err)
	}
}
