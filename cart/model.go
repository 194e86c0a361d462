package cart

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"shopfront/commerce"
	"shopfront/models"
	"shopfront/notify"
)

// Model holds the local view of the server-side cart. Every mutation is a
// remote call followed by a full reload, so the local snapshot never diverges
// from server truth.
type Model struct {
	mu     sync.RWMutex
	api    *commerce.Client
	notify notify.Sink
	snap   models.CartSnapshot

	adding atomic.Bool
}

func NewModel(api *commerce.Client, sink notify.Sink) *Model {
	return &Model{api: api, notify: sink}
}

// Snapshot returns the last loaded projection.
func (m *Model) Snapshot() models.CartSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Load replaces the local snapshot with the server state.
func (m *Model) Load(ctx context.Context) (models.CartSnapshot, error) {
	snap, err := m.api.CartItems(ctx)
	if err != nil {
		log.Println("cart: load failed:", err)
		m.notify.Error("Failed to load cart")
		return m.Snapshot(), err
	}
	if snap.Items == nil {
		snap.Items = []models.CartLineItem{}
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return snap, nil
}

// AddItem adds a product and reloads. A second call while one is in flight
// is dropped, so rapid repeated triggers produce exactly one remote call.
func (m *Model) AddItem(ctx context.Context, productID int) error {
	if !m.adding.CompareAndSwap(false, true) {
		return nil
	}
	defer m.adding.Store(false)

	if err := m.api.AddToCart(ctx, productID); err != nil {
		log.Println("cart: add failed:", err)
		m.notify.Error("Failed to add item to cart")
		return err
	}
	m.notify.Success("Item added to cart")
	_, err := m.Load(ctx)
	return err
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line.
func (m *Model) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return m.RemoveItem(ctx, productID)
	}
	if err := m.api.UpdateCart(ctx, productID, quantity); err != nil {
		log.Println("cart: update failed:", err)
		m.notify.Error("Failed to update quantity")
		return err
	}
	_, err := m.Load(ctx)
	return err
}

func (m *Model) RemoveItem(ctx context.Context, productID int) error {
	if err := m.api.RemoveFromCart(ctx, productID); err != nil {
		log.Println("cart: remove failed:", err)
		m.notify.Error("Failed to remove item from cart")
		return err
	}
	_, err := m.Load(ctx)
	return err
}
