// Package cart holds the in-memory cart ledger and its persistent store
// adapters. The in-memory ledger is authoritative for the session; every
// mutation re-serializes the whole cart to the store, last write wins.
package cart

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"SnowStore/internal/catalog"
)

// LineItem is one cart entry, aggregating quantity for a single product id.
// Price and image are snapshots captured when the product was first added.
type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Totals are derived on every read, never stored.
type Totals struct {
	ItemCount int     `json:"item_count"`
	Amount    float64 `json:"amount"`
}

// Ledger is the ordered line-item list, keyed by product id with insertion
// order preserved. It is not safe for concurrent use; the storefront
// controller serializes access.
type Ledger struct {
	store Store
	log   *zap.Logger
	items []LineItem
}

func NewLedger(store Store, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log}
}

// Load replaces the ledger contents with the value persisted in the store.
// An absent value means an empty cart. A stored value that does not decode
// is discarded with a warning rather than poisoning the session.
func (l *Ledger) Load(ctx context.Context) error {
	raw, ok, err := l.store.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		l.items = nil
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.log.Warn("discarding malformed stored cart", zap.Error(err))
		l.items = nil
		return nil
	}

	l.items = items
	return nil
}

// Add appends a line item for the product, or increments quantity if one
// already exists. The price snapshot is never refreshed on repeat adds, so a
// catalog price change mid-session cannot drift the cart.
func (l *Ledger) Add(ctx context.Context, p catalog.Product) {
	id := string(p.ID)

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Quantity++
			l.persist(ctx)
			return
		}
	}

	l.items = append(l.items, LineItem{
		ID:       id,
		Title:    p.Title,
		Price:    p.Price(),
		Image:    p.ImageSrc(),
		Quantity: 1,
	})
	l.persist(ctx)
}

// Remove deletes the line item with the given id; unknown ids are a no-op.
func (l *Ledger) Remove(ctx context.Context, id string) {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// SetQuantity sets the quantity verbatim. A quantity of zero or less removes
// the line item. No upper bound is enforced.
func (l *Ledger) SetQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		l.Remove(ctx, id)
		return
	}

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Quantity = quantity
			l.persist(ctx)
			return
		}
	}
}

// Clear empties the ledger and the store.
func (l *Ledger) Clear(ctx context.Context) {
	l.items = nil
	if err := l.store.Clear(ctx); err != nil {
		l.log.Warn("cart store clear failed", zap.Error(err))
	}
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Totals derives the item count and amount from the current line items.
func (l *Ledger) Totals() Totals {
	var t Totals
	for _, it := range l.items {
		t.ItemCount += it.Quantity
		t.Amount += it.Price * float64(it.Quantity)
	}
	return t
}

// persist re-serializes the whole cart. A failed write is logged and
// otherwise ignored: the in-memory ledger stays authoritative for the
// session.
func (l *Ledger) persist(ctx context.Context) {
	b, err := json.Marshal(l.items)
	if err != nil {
		l.log.Warn("cart serialize failed", zap.Error(err))
		return
	}
	if err := l.store.Set(ctx, string(b)); err != nil {
		l.log.Warn("cart persist failed", zap.Error(err))
	}
}
