package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := storage.Open(context.Background(), "", ":memory:")
	require.NoError(t, err)
	return NewStore(kv, nil)
}

// brokenKV fails every write; reads behave as an empty store.
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}
func (brokenKV) Delete(context.Context, ...string) error { return errors.New("disk full") }

var bottle = models.Product{
	ID:       "p2",
	Name:     "Stainless Steel Bottle",
	Price:    25.99,
	Category: "accessories",
}

func TestAddMergesIntoOneLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 1)
	line := s.Add(ctx, "client-1", bottle, 2)

	require.Equal(t, uint(3), line.Quantity)

	lines := s.Lines(ctx, "client-1")
	require.Len(t, lines, 1)
	require.Equal(t, "p2", lines[0].ProductID)
	require.Equal(t, uint(3), lines[0].Quantity)
	require.InDelta(t, 77.97, s.Subtotal(ctx, "client-1"), 0.001)
	require.Equal(t, uint(3), s.ItemCount(ctx, "client-1"))
}

func TestAddSnapshotsPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 1)

	repriced := bottle
	repriced.Price = 99.99
	s.Add(ctx, "client-1", repriced, 1)

	lines := s.Lines(ctx, "client-1")
	require.Len(t, lines, 1)
	require.InDelta(t, 25.99, lines[0].UnitPrice, 0.001)
}

func TestAddClampsQuantity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	line := s.Add(ctx, "client-1", bottle, 0)
	require.Equal(t, uint(1), line.Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 1)
	s.UpdateQuantity(ctx, "client-1", "p2", 5)

	lines := s.Lines(ctx, "client-1")
	require.Len(t, lines, 1)
	require.Equal(t, uint(5), lines[0].Quantity)

	s.UpdateQuantity(ctx, "client-1", "p2", 0)
	require.Empty(t, s.Lines(ctx, "client-1"))
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 2)
	s.UpdateQuantity(ctx, "client-1", "p2", -3)

	require.Empty(t, s.Lines(ctx, "client-1"))
	require.Zero(t, s.ItemCount(ctx, "client-1"))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 1)
	s.Remove(ctx, "client-1", "does-not-exist")

	require.Len(t, s.Lines(ctx, "client-1"), 1)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 2)
	s.Clear(ctx, "client-1")

	require.Empty(t, s.Lines(ctx, "client-1"))
	require.Zero(t, s.ItemCount(ctx, "client-1"))
	require.Zero(t, s.Subtotal(ctx, "client-1"))
}

func TestCartsAreIsolatedPerClient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, "client-1", bottle, 1)
	require.Empty(t, s.Lines(ctx, "client-2"))
}

func TestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv, err := storage.Open(ctx, "", ":memory:")
	require.NoError(t, err)

	first := NewStore(kv, nil)
	first.Add(ctx, "client-1", bottle, 3)

	// Same storage, fresh in-memory state.
	second := NewStore(kv, nil)
	lines := second.Lines(ctx, "client-1")
	require.Len(t, lines, 1)
	require.Equal(t, uint(3), lines[0].Quantity)
	require.InDelta(t, 25.99, lines[0].UnitPrice, 0.001)
}

func TestRestoreSkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	kv, err := storage.Open(ctx, "", ":memory:")
	require.NoError(t, err)

	key := storage.Key(storage.KeyCart, "client-1")
	require.NoError(t, kv.Set(ctx, key,
		`[{"product_id":"p2","quantity":2,"unit_price":25.99},{"product_id":"","quantity":1},{"product_id":"p9","quantity":0}]`))

	s := NewStore(kv, nil)
	lines := s.Lines(ctx, "client-1")
	require.Len(t, lines, 1)
	require.Equal(t, "p2", lines[0].ProductID)
}

func TestMutationsSurviveStorageFailure(t *testing.T) {
	s := NewStore(brokenKV{}, nil)
	ctx := context.Background()

	line := s.Add(ctx, "client-1", bottle, 2)
	require.Equal(t, uint(2), line.Quantity)

	s.UpdateQuantity(ctx, "client-1", "p2", 5)
	s.Clear(ctx, "client-1")
	require.Empty(t, s.Lines(ctx, "client-1"))
}

func TestTotalsRecomputedFromLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shirt := models.Product{ID: "p1", Name: "Classic University T-Shirt", Price: 12.99}
	chair := models.Product{ID: "p3", Name: "Ergonomic Study Chair", Price: 199.99}

	s.Add(ctx, "client-1", shirt, 2)
	s.Add(ctx, "client-1", chair, 1)

	require.Equal(t, uint(3), s.ItemCount(ctx, "client-1"))
	require.InDelta(t, 2*12.99+199.99, s.Subtotal(ctx, "client-1"), 0.001)

	s.Remove(ctx, "client-1", "p3")
	require.Equal(t, uint(2), s.ItemCount(ctx, "client-1"))
	require.InDelta(t, 2*12.99, s.Subtotal(ctx, "client-1"), 0.001)
}
