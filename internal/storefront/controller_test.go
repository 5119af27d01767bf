package storefront_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SnowStore/internal/cart"
	"SnowStore/internal/catalog"
	"SnowStore/internal/filter"
	"SnowStore/internal/storefront"
)

const testEnvelope = `{
	"status": "success",
	"data": [
		{"product": {"id": 1, "title": "Alpine Rider", "vendor": "SnowCo", "tags": "freestyle", "variants": [{"price": "499.00"}]}},
		{"product": {"id": 2, "title": "Backcountry Pro", "vendor": "PeakGear", "variants": [{"price": "1250.00"}]}},
		{"product": {"id": 3, "title": "Carver Elite", "vendor": "SnowCo", "variants": [{"price": "750.00"}]}}
	]
}`

func newLoadedController(t *testing.T, debounce time.Duration) *storefront.Controller {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testEnvelope))
	}))
	t.Cleanup(ts.Close)

	ledger := cart.NewLedger(cart.NewMemStore(), nil)
	ctrl := storefront.NewController(ledger, storefront.ControllerOpts{
		SearchDebounce: debounce,
	})
	t.Cleanup(ctrl.Close)

	if err := ctrl.LoadCatalog(context.Background(), catalog.NewClient(ts.URL)); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return ctrl
}

func TestController_InitialViewIsFullCatalogNameAsc(t *testing.T) {
	ctrl := newLoadedController(t, -1)

	view := ctrl.View()
	if len(view) != 3 {
		t.Fatalf("view len=%d want 3", len(view))
	}
	if ctrl.Filters().SortKey != filter.DefaultSort {
		t.Fatalf("sort=%q want %q", ctrl.Filters().SortKey, filter.DefaultSort)
	}
}

func TestController_SearchIsDebounced(t *testing.T) {
	ctrl := newLoadedController(t, 30*time.Millisecond)

	ctrl.SetSearch("alp")
	ctrl.SetSearch("alpi")
	ctrl.SetSearch("alpine")

	// Inside the quiescence window the view is still the old one.
	if got := len(ctrl.View()); got != 3 {
		t.Fatalf("view recomputed too early: len=%d", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(ctrl.View()) == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	view := ctrl.View()
	if len(view) != 1 || view[0].ID != "1" {
		t.Fatalf("view=%v want just product 1", view)
	}
}

func TestController_VendorAndBucketRecomputeEagerly(t *testing.T) {
	ctrl := newLoadedController(t, -1)

	ctrl.SetVendor("SnowCo")
	if got := len(ctrl.View()); got != 2 {
		t.Fatalf("vendor filter: len=%d want 2", got)
	}

	ctrl.SetPriceBucket(filter.Bucket750to1000)
	view := ctrl.View()
	if len(view) != 1 || view[0].ID != "3" {
		t.Fatalf("bucket filter: %v want product 3", view)
	}
}

func TestController_ClearFiltersResetsEverything(t *testing.T) {
	ctrl := newLoadedController(t, -1)

	ctrl.SetSearch("alpine")
	ctrl.SetVendor("SnowCo")
	ctrl.SetSort(filter.SortPriceDesc)
	ctrl.ClearFilters()

	if got := ctrl.Filters(); got != (filter.State{SortKey: filter.DefaultSort}) {
		t.Fatalf("filters=%+v want defaults", got)
	}
	if got := len(ctrl.View()); got != 3 {
		t.Fatalf("view len=%d want 3", got)
	}
}

func TestController_Vendors(t *testing.T) {
	ctrl := newLoadedController(t, -1)

	got := ctrl.Vendors()
	if len(got) != 2 || got[0] != "SnowCo" || got[1] != "PeakGear" {
		t.Fatalf("vendors=%v", got)
	}
}

func TestController_AddToCartUnknownIDIsSilent(t *testing.T) {
	ctx := context.Background()
	ctrl := newLoadedController(t, -1)

	ctrl.AddToCart(ctx, "ghost")

	if items := ctrl.CartItems(); len(items) != 0 {
		t.Fatalf("items=%v want empty", items)
	}
}

func TestController_CartFlow(t *testing.T) {
	ctx := context.Background()
	ctrl := newLoadedController(t, -1)

	ctrl.AddToCart(ctx, "1")
	ctrl.AddToCart(ctx, "1")
	ctrl.AddToCart(ctx, "2")
	ctrl.SetCartQuantity(ctx, "2", 3)

	totals := ctrl.CartTotals()
	if totals.ItemCount != 5 {
		t.Fatalf("item count=%d want 5", totals.ItemCount)
	}
	if want := 2*499.00 + 3*1250.00; totals.Amount != want {
		t.Fatalf("amount=%v want %v", totals.Amount, want)
	}

	ctrl.RemoveFromCart(ctx, "1")
	ctrl.ClearCart(ctx)
	if items := ctrl.CartItems(); len(items) != 0 {
		t.Fatalf("items=%v want empty after clear", items)
	}
}

func TestController_LoadFailureIsTheOnlyVisibleError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	ledger := cart.NewLedger(cart.NewMemStore(), nil)
	ctrl := storefront.NewController(ledger, storefront.ControllerOpts{SearchDebounce: -1})
	t.Cleanup(ctrl.Close)

	err := ctrl.LoadCatalog(context.Background(), catalog.NewClient(ts.URL))
	if !errors.Is(err, catalog.ErrLoadFailed) {
		t.Fatalf("err=%v want ErrLoadFailed", err)
	}
	if ctrl.LoadError() == nil {
		t.Fatalf("expected persistent load error state")
	}

	// The cart stays usable regardless of the catalog failure.
	ctrl.AddToCart(context.Background(), "1")
	if items := ctrl.CartItems(); len(items) != 0 {
		t.Fatalf("unknown id with empty catalog must no-op, got %v", items)
	}
}
