package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SnowStore/internal/catalog"
)

const goodEnvelope = `{
	"status": "success",
	"data": [
		{"product": {"id": 1, "title": "Alpine Rider", "vendor": "SnowCo", "variants": [{"price": "499.00"}]}},
		{"product": {"id": 2, "title": "Broken", "vendor": "SnowCo", "variants": []}},
		{"product": {"id": 3, "title": "Backcountry Pro", "vendor": "PeakGear", "variants": [{"price": "1250.00", "compare_at_price": "1500.00"}]}}
	]
}`

func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Load_UnwrapsEnvelopeAndDropsBadProducts(t *testing.T) {
	ts := newUpstream(t, http.StatusOK, goodEnvelope)

	products, dropped, err := catalog.NewClient(ts.URL).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped=%d want 1", dropped)
	}
	if len(products) != 2 {
		t.Fatalf("len=%d want 2", len(products))
	}
	if products[0].ID != "1" || products[1].ID != "3" {
		t.Fatalf("ids=%v,%v", products[0].ID, products[1].ID)
	}
	if !products[1].OnSale() {
		t.Fatalf("product 3 should be on sale")
	}
}

func TestClient_Load_NonSuccessStatusIsBadPayload(t *testing.T) {
	ts := newUpstream(t, http.StatusOK, `{"status":"error","data":[]}`)

	_, _, err := catalog.NewClient(ts.URL).Load(context.Background())
	if !errors.Is(err, catalog.ErrBadPayload) {
		t.Fatalf("err=%v want ErrBadPayload", err)
	}
	if !errors.Is(err, catalog.ErrLoadFailed) {
		t.Fatalf("err=%v must wrap ErrLoadFailed", err)
	}
}

func TestClient_Load_MissingDataIsBadPayload(t *testing.T) {
	ts := newUpstream(t, http.StatusOK, `{"status":"success"}`)

	_, _, err := catalog.NewClient(ts.URL).Load(context.Background())
	if !errors.Is(err, catalog.ErrBadPayload) {
		t.Fatalf("err=%v want ErrBadPayload", err)
	}
}

func TestClient_Load_MalformedBodyIsBadPayload(t *testing.T) {
	ts := newUpstream(t, http.StatusOK, `{"status": "succ`)

	_, _, err := catalog.NewClient(ts.URL).Load(context.Background())
	if !errors.Is(err, catalog.ErrBadPayload) {
		t.Fatalf("err=%v want ErrBadPayload", err)
	}
}

func TestClient_Load_HTTPErrorIsBadStatus(t *testing.T) {
	ts := newUpstream(t, http.StatusInternalServerError, "boom")

	_, _, err := catalog.NewClient(ts.URL).Load(context.Background())
	if !errors.Is(err, catalog.ErrBadStatus) {
		t.Fatalf("err=%v want ErrBadStatus", err)
	}
	if !errors.Is(err, catalog.ErrLoadFailed) {
		t.Fatalf("err=%v must wrap ErrLoadFailed", err)
	}
}

func TestClient_Load_UnreachableIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, _, err := catalog.NewClient(url).Load(context.Background())
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
	if !errors.Is(err, catalog.ErrLoadFailed) {
		t.Fatalf("err=%v must wrap ErrLoadFailed", err)
	}
}
