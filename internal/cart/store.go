// Package cart holds each client's shopping cart. Lines live in memory
// keyed by product, are mirrored to durable storage so a restart keeps
// the cart, and totals are recomputed from the lines on every read — no
// counters that could drift.
package cart

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/unimarket/storefront/internal/events"
	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/storage"
	"github.com/unimarket/storefront/pkg/logging"
)

type Store struct {
	KV     storage.KV
	Events *events.Producer

	mu    sync.RWMutex
	carts map[string]map[string]*models.CartLine
}

func NewStore(kv storage.KV, producer *events.Producer) *Store {
	return &Store{
		KV:     kv,
		Events: producer,
		carts:  make(map[string]map[string]*models.CartLine),
	}
}

// Add merges quantity into an existing line or inserts a new one with a
// price snapshot taken now. qty below 1 counts as 1.
func (s *Store) Add(ctx context.Context, clientID string, product models.Product, qty uint) models.CartLine {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	lines := s.linesLocked(ctx, clientID)
	line, ok := lines[product.ID]
	if ok {
		line.Quantity += qty
	} else {
		line = &models.CartLine{
			ProductID: product.ID,
			Quantity:  qty,
			UnitPrice: product.Price,
		}
		lines[product.ID] = line
	}
	out := *line
	s.mu.Unlock()

	s.persist(ctx, clientID)
	s.publish(ctx, clientID, map[string]any{
		"type":       "cart_item_added",
		"product_id": product.ID,
		"quantity":   out.Quantity,
	})
	return out
}

// UpdateQuantity sets a line's quantity; zero or negative removes it.
func (s *Store) UpdateQuantity(ctx context.Context, clientID, productID string, qty int) {
	s.mu.Lock()
	lines := s.linesLocked(ctx, clientID)
	if qty <= 0 {
		delete(lines, productID)
	} else if line, ok := lines[productID]; ok {
		line.Quantity = uint(qty)
	}
	s.mu.Unlock()

	s.persist(ctx, clientID)
	s.publish(ctx, clientID, map[string]any{
		"type":       "cart_quantity_updated",
		"product_id": productID,
		"quantity":   qty,
	})
}

// Remove deletes the line; absent lines are a no-op, not an error.
func (s *Store) Remove(ctx context.Context, clientID, productID string) {
	s.mu.Lock()
	lines := s.linesLocked(ctx, clientID)
	delete(lines, productID)
	s.mu.Unlock()

	s.persist(ctx, clientID)
	s.publish(ctx, clientID, map[string]any{
		"type":       "cart_item_removed",
		"product_id": productID,
	})
}

func (s *Store) Clear(ctx context.Context, clientID string) {
	s.mu.Lock()
	delete(s.carts, clientID)
	s.mu.Unlock()

	if err := s.KV.Delete(ctx, storage.Key(storage.KeyCart, clientID)); err != nil {
		logging.FromContext(ctx).Error("cart clear failed", "error", err)
	}
	s.publish(ctx, clientID, map[string]any{"type": "cart_cleared"})
}

// Lines returns the client's lines ordered by product ID.
func (s *Store) Lines(ctx context.Context, clientID string) []models.CartLine {
	s.mu.Lock()
	lines := s.linesLocked(ctx, clientID)
	out := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, *line)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (s *Store) ItemCount(ctx context.Context, clientID string) uint {
	var n uint
	for _, line := range s.Lines(ctx, clientID) {
		n += line.Quantity
	}
	return n
}

func (s *Store) Subtotal(ctx context.Context, clientID string) float64 {
	var total float64
	for _, line := range s.Lines(ctx, clientID) {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

// linesLocked returns the client's line map, restoring it from durable
// storage on first touch. Caller holds s.mu.
func (s *Store) linesLocked(ctx context.Context, clientID string) map[string]*models.CartLine {
	if lines, ok := s.carts[clientID]; ok {
		return lines
	}

	lines := make(map[string]*models.CartLine)
	raw, ok, err := s.KV.Get(ctx, storage.Key(storage.KeyCart, clientID))
	if err != nil {
		logging.FromContext(ctx).Error("cart restore read failed", "error", err)
	} else if ok {
		var stored []models.CartLine
		if err := json.Unmarshal([]byte(raw), &stored); err == nil {
			for i := range stored {
				if stored[i].Quantity >= 1 && stored[i].ProductID != "" {
					line := stored[i]
					lines[line.ProductID] = &line
				}
			}
		}
	}

	s.carts[clientID] = lines
	return lines
}

func (s *Store) persist(ctx context.Context, clientID string) {
	lines := s.Lines(ctx, clientID)

	l := logging.FromContext(ctx)
	data, err := json.Marshal(lines)
	if err != nil {
		l.Error("cart persist failed", "error", err)
		return
	}
	if err := s.KV.Set(ctx, storage.Key(storage.KeyCart, clientID), string(data)); err != nil {
		l.Error("cart persist failed", "error", err)
	}
}

func (s *Store) publish(ctx context.Context, clientID string, event map[string]any) {
	if err := s.Events.Publish(ctx, events.TopicCartEvents, clientID, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}
