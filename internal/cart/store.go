package cart

import (
	"context"
	"log/slog"
	"sync"
)

// Store owns the cart snapshot for one browsing session. Mutations never fail
// from the caller's point of view: invalid input is clamped, and persistence
// is best-effort. Every mutation rewrites the full snapshot through the
// persister and notifies subscribers.
type Store struct {
	mu      sync.Mutex
	items   Snapshot
	persist Persister
	subs    []func(Snapshot)
}

func NewStore(p Persister) *Store {
	return &Store{persist: p}
}

// Load rehydrates the snapshot from the persister. Absent or unreadable state
// yields an empty cart rather than an error.
func (s *Store) Load(ctx context.Context) {
	snap, err := s.persist.Load(ctx)
	if err != nil {
		slog.Warn("cart: load failed, starting empty", "err", err)
		snap = nil
	}
	s.mu.Lock()
	s.items = snap
	s.mu.Unlock()
}

// Subscribe registers fn to run after every mutation with a copy of the new
// snapshot. Used for re-render style hooks; fn must not mutate the store.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Add merges qty into an existing entry with the same (product, size, color)
// identity, or appends a new entry. qty below 1 is clamped to 1.
func (s *Store) Add(ctx context.Context, p ProductView, qty int, size, color string) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].sameIdentity(p.ID, size, color) {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Image:     p.Image,
			Category:  p.Category,
			Quantity:  qty,
			Size:      size,
			Color:     color,
		})
	}
	s.afterMutation(ctx)
}

// Remove drops every entry for productID regardless of size or color.
// Removal is coarse-grained by product, not by full identity; this matches
// the shipped storefront behavior and is kept until product decides otherwise.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.afterMutation(ctx)
}

// SetQuantity sets the quantity on every entry for productID (same coarse
// granularity as Remove), clamped to a minimum of 1. No maximum is enforced
// here; checkout clamps its own ceiling server-side.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
		}
	}
	s.afterMutation(ctx)
}

// Clear empties the cart. Called after a confirmed payment or on user request.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.afterMutation(ctx)
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.clone()
}

func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.TotalItemCount()
}

func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Subtotal()
}

// afterMutation persists and notifies. Called with the lock held; releases it.
func (s *Store) afterMutation(ctx context.Context) {
	snap := s.items.clone()
	subs := s.subs
	s.mu.Unlock()

	if err := s.persist.Save(ctx, snap); err != nil {
		slog.Warn("cart: persist failed", "err", err)
	}
	for _, fn := range subs {
		fn(snap)
	}
}
