package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/storage"
)

func menuItem(id uint64, name string, price float64) model.MenuItem {
	return model.MenuItem{ID: id, Name: name, Price: price}
}

func TestAddToCartMergesSameID(t *testing.T) {
	s := New(storage.NewMemoryKV())
	pizza := menuItem(1, "Margherita Pizza", 9.5)

	for i := 0; i < 5; i++ {
		s.AddToCart(pizza)
	}

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint64(1), items[0].ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		s := New(storage.NewMemoryKV())
		s.AddToCart(menuItem(1, "Salad", 7))

		s.UpdateQuantity(1, qty)

		assert.Empty(t, s.Items(), "qty=%d should remove the item", qty)
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	s := New(storage.NewMemoryKV())
	s.AddToCart(menuItem(1, "Salad", 7))

	s.UpdateQuantity(1, 4)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestRemoveFromCartAbsentIsNoop(t *testing.T) {
	s := New(storage.NewMemoryKV())
	s.AddToCart(menuItem(1, "Salad", 7))

	s.RemoveFromCart(99)

	assert.Len(t, s.Items(), 1)
}

func TestCartTotalIndependentOfInsertionOrder(t *testing.T) {
	a := New(storage.NewMemoryKV())
	a.AddToCart(menuItem(1, "Pizza", 10))
	a.AddToCart(menuItem(1, "Pizza", 10))
	a.AddToCart(menuItem(2, "Juice", 5))

	b := New(storage.NewMemoryKV())
	b.AddToCart(menuItem(2, "Juice", 5))
	b.AddToCart(menuItem(1, "Pizza", 10))
	b.AddToCart(menuItem(1, "Pizza", 10))

	assert.Equal(t, 25.0, a.CartTotal())
	assert.Equal(t, a.CartTotal(), b.CartTotal())
	assert.Equal(t, 3, a.CartCount())
}

func TestTotalUsesPriceCapturedAtAddTime(t *testing.T) {
	s := New(storage.NewMemoryKV())
	s.AddToCart(menuItem(1, "Pizza", 10))
	// The menu price changing later must not affect the cart line.
	s.AddToCart(menuItem(1, "Pizza", 12))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10.0, items[0].Price)
	assert.Equal(t, 20.0, s.CartTotal())
}

func TestCartSurvivesRestart(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := New(kv)
	s.AddToCart(menuItem(1, "Pizza", 10))
	s.AddToCart(menuItem(2, "Juice", 5))
	s.UpdateQuantity(1, 3)

	restored := New(kv)
	assert.Equal(t, s.Items(), restored.Items())
	assert.Equal(t, 35.0, restored.CartTotal())
}

func TestClear(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := New(kv)
	s.AddToCart(menuItem(1, "Pizza", 10))

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Empty(t, New(kv).Items(), "clear must be persisted too")
}
