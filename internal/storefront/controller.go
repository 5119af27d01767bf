// Package storefront owns the application state (catalog, filter controls,
// cart) behind a single controller and exposes it over HTTP. Business logic
// stays in the catalog, filter and cart packages; this package is the event
// and view boundary.
package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"SnowStore/internal/cart"
	"SnowStore/internal/catalog"
	"SnowStore/internal/filter"
	"SnowStore/pkg/kit"
)

// DefaultSearchDebounce matches the original storefront's keystroke
// quiescence window.
const DefaultSearchDebounce = 300 * time.Millisecond

// Controller holds all mutable storefront state. Every mutation and read
// goes through its mutex, giving the single-logical-thread model of the
// original page without ambient globals.
type Controller struct {
	mu sync.Mutex

	log     *zap.Logger
	metrics *Metrics

	catalog []catalog.Product
	vendors []string
	loadErr error

	filters  filter.State
	view     []catalog.Product
	debounce *kit.Debouncer

	ledger *cart.Ledger
}

type ControllerOpts struct {
	Log     *zap.Logger
	Metrics *Metrics

	// SearchDebounce overrides the search quiescence window. Zero means
	// DefaultSearchDebounce; negative disables debouncing entirely.
	SearchDebounce time.Duration
}

func NewController(ledger *cart.Ledger, opts ControllerOpts) *Controller {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	window := opts.SearchDebounce
	if window == 0 {
		window = DefaultSearchDebounce
	}

	return &Controller{
		log:      opts.Log,
		metrics:  opts.Metrics,
		filters:  filter.State{SortKey: filter.DefaultSort},
		debounce: kit.NewDebouncer(window),
		ledger:   ledger,
	}
}

// LoadCatalog performs the one startup fetch. On failure the controller
// stays in the load-error state; the cart remains usable against whatever
// was loaded before (nothing, on first call).
func (c *Controller) LoadCatalog(ctx context.Context, client *catalog.Client) error {
	products, dropped, err := client.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.loadErr = err
		c.metrics.catalogLoad("error")
		c.log.Error("catalog load failed", zap.Error(err))
		return err
	}

	if dropped > 0 {
		c.log.Warn("dropped unrenderable products", zap.Int("count", dropped))
	}

	c.catalog = products
	c.vendors = catalog.Vendors(products)
	c.loadErr = nil
	c.recompute()
	c.metrics.catalogLoad("success")
	c.log.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("dropped", dropped),
	)
	return nil
}

// LoadError reports the catalog load failure, if any. It is the only
// user-visible failure state.
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// SetSearch records the search term and schedules a debounced view
// recompute: only the last keystroke within the quiescence window triggers
// the recompute.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	c.filters.SearchTerm = term
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.recompute()
	})
}

func (c *Controller) SetVendor(vendor string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Vendor = vendor
	c.recompute()
}

func (c *Controller) SetPriceBucket(bucket filter.PriceBucket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.PriceBucket = bucket
	c.recompute()
}

func (c *Controller) SetSort(key filter.SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SortKey = key
	c.recompute()
}

// ClearFilters resets every control to its initial state, including the
// sort dropdown.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = filter.State{SortKey: filter.DefaultSort}
	c.recompute()
}

// Filters returns the current filter controls.
func (c *Controller) Filters() filter.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// View returns the current filtered, sorted product subset. An empty view
// is a valid "no matches" outcome, distinct from a load error.
func (c *Controller) View() []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Product, len(c.view))
	copy(out, c.view)
	return out
}

// Vendors returns the distinct vendor list for the filter dropdown.
func (c *Controller) Vendors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.vendors))
	copy(out, c.vendors)
	return out
}

// AddToCart looks the product up in the catalog and adds it to the ledger.
// An unknown id is a silent no-op so a stale button never surfaces an error.
func (c *Controller) AddToCart(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := catalog.FindByID(c.catalog, catalog.ProductID(id))
	if !ok {
		c.log.Debug("add to cart ignored: unknown product", zap.String("id", id))
		return
	}
	c.ledger.Add(ctx, p)
	c.metrics.cartOp("add")
}

func (c *Controller) RemoveFromCart(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.Remove(ctx, id)
	c.metrics.cartOp("remove")
}

func (c *Controller) SetCartQuantity(ctx context.Context, id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.SetQuantity(ctx, id, quantity)
	c.metrics.cartOp("set_quantity")
}

func (c *Controller) ClearCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.Clear(ctx)
	c.metrics.cartOp("clear")
}

func (c *Controller) CartItems() []cart.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Items()
}

func (c *Controller) CartTotals() cart.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Totals()
}

// Close cancels any pending debounced recompute.
func (c *Controller) Close() {
	c.debounce.Stop()
}

// recompute must run with the mutex held.
func (c *Controller) recompute() {
	c.view = filter.Apply(c.catalog, c.filters)
}
