package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"SnowStore/internal/cart"
	"SnowStore/internal/filter"
	"SnowStore/pkg/kit"
)

const maxBodyBytes = 1 << 16

type Server struct {
	Ctrl  *Controller
	Store cart.Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.listProducts)
	r.Get("/vendors", s.listVendors)

	r.Put("/filters", s.setFilters)
	r.Delete("/filters", s.clearFilters)

	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", s.getCart)
		cr.Get("/totals", s.getTotals)
		cr.Delete("/", s.clearCart)
		cr.Post("/items", s.addItem)
		cr.Put("/items/{id}", s.setItemQuantity)
		cr.Delete("/items/{id}", s.removeItem)
	})

	return r
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	if err := s.Ctrl.LoadError(); err != nil {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "error loading products", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.View())
}

func (s *Server) listVendors(w http.ResponseWriter, r *http.Request) {
	if err := s.Ctrl.LoadError(); err != nil {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "error loading products", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.Vendors())
}

type filtersReq struct {
	Search *string `json:"search"`
	Vendor *string `json:"vendor"`
	Price  *string `json:"price"`
	Sort   *string `json:"sort"`
}

var validSorts = map[filter.SortKey]struct{}{
	filter.SortNameAsc:   {},
	filter.SortNameDesc:  {},
	filter.SortPriceAsc:  {},
	filter.SortPriceDesc: {},
}

var validBuckets = map[filter.PriceBucket]struct{}{
	"":                     {},
	filter.BucketUnder500:  {},
	filter.Bucket500to750:  {},
	filter.Bucket750to1000: {},
	filter.Bucket1000to2K:  {},
	filter.Bucket2KPlus:    {},
}

// setFilters applies only the controls present in the body, mirroring the
// original page where each control fires its own change event. The search
// control is the only debounced one.
func (s *Server) setFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if req.Sort != nil {
		if _, ok := validSorts[filter.SortKey(*req.Sort)]; !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "bad sort", map[string]any{"sort": *req.Sort})
			return
		}
	}
	if req.Price != nil {
		if _, ok := validBuckets[filter.PriceBucket(*req.Price)]; !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "bad price bucket", map[string]any{"price": *req.Price})
			return
		}
	}

	if req.Search != nil {
		s.Ctrl.SetSearch(*req.Search)
	}
	if req.Vendor != nil {
		s.Ctrl.SetVendor(*req.Vendor)
	}
	if req.Price != nil {
		s.Ctrl.SetPriceBucket(filter.PriceBucket(*req.Price))
	}
	if req.Sort != nil {
		s.Ctrl.SetSort(filter.SortKey(*req.Sort))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearFilters(w http.ResponseWriter, _ *http.Request) {
	s.Ctrl.ClearFilters()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.CartItems())
}

type totalsResp struct {
	ItemCount int     `json:"item_count"`
	Amount    float64 `json:"amount"`
	Display   string  `json:"display"`
}

func (s *Server) getTotals(w http.ResponseWriter, r *http.Request) {
	t := s.Ctrl.CartTotals()
	kit.WriteJSON(w, http.StatusOK, totalsResp{
		ItemCount: t.ItemCount,
		Amount:    t.Amount,
		Display:   fmt.Sprintf("₹%.2f", t.Amount),
	})
}

type addItemReq struct {
	ProductID string `json:"product_id"`
}

// addItem adds one unit of the product. An unknown product id is a silent
// no-op: the response is the unchanged cart, never an error.
func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	s.Ctrl.AddToCart(r.Context(), req.ProductID)
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.CartItems())
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (s *Server) setItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	id := chi.URLParam(r, "id")
	s.Ctrl.SetCartQuantity(r.Context(), id, req.Quantity)
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.CartItems())
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.Ctrl.RemoveFromCart(r.Context(), id)
	kit.WriteJSON(w, http.StatusOK, s.Ctrl.CartItems())
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.Ctrl.ClearCart(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
