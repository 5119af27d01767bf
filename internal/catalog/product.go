package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PlaceholderImage is used for products and line items without an image.
const PlaceholderImage = "https://via.placeholder.com/100x100?text=No+Image"

// ProductID is the canonical string form of a product identifier. The remote
// API emits ids as JSON numbers; everything past the decode boundary compares
// them as exact strings.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

type Image struct {
	Src string `json:"src"`
}

type Variant struct {
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price,omitempty"`
}

type Product struct {
	ID       ProductID `json:"id"`
	Title    string    `json:"title"`
	Vendor   string    `json:"vendor"`
	Tags     string    `json:"tags,omitempty"`
	Image    *Image    `json:"image,omitempty"`
	Variants []Variant `json:"variants"`
}

// Price returns the numeric price of the first variant. Products surviving
// Normalize always have a parseable first-variant price.
func (p Product) Price() float64 {
	if len(p.Variants) == 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(p.Variants[0].Price, 64)
	return v
}

// OnSale reports whether the first variant carries a compare-at price above
// its current price.
func (p Product) OnSale() bool {
	if len(p.Variants) == 0 || p.Variants[0].CompareAtPrice == "" {
		return false
	}
	cmp, err := strconv.ParseFloat(p.Variants[0].CompareAtPrice, 64)
	if err != nil {
		return false
	}
	return cmp > p.Price()
}

// ImageSrc returns the product image source, falling back to a placeholder.
func (p Product) ImageSrc() string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	return PlaceholderImage
}

// MatchesSearch reports whether the product matches a case-insensitive
// substring search over title, vendor and tags. An empty term matches all.
func (p Product) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Vendor), term) ||
		(p.Tags != "" && strings.Contains(strings.ToLower(p.Tags), term))
}

// Normalize drops products the storefront cannot render: missing id, no
// variants, or an unparseable first-variant price. Returns the kept products
// and the number dropped.
func Normalize(products []Product) ([]Product, int) {
	kept := make([]Product, 0, len(products))
	dropped := 0

	for _, p := range products {
		if p.ID == "" || len(p.Variants) == 0 {
			dropped++
			continue
		}
		if _, err := strconv.ParseFloat(p.Variants[0].Price, 64); err != nil {
			dropped++
			continue
		}
		kept = append(kept, p)
	}

	return kept, dropped
}

// Vendors returns the distinct vendor names in first-seen order.
func Vendors(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))

	for _, p := range products {
		if _, ok := seen[p.Vendor]; ok {
			continue
		}
		seen[p.Vendor] = struct{}{}
		out = append(out, p.Vendor)
	}

	return out
}

// FindByID returns the product with the given id, if present.
func FindByID(products []Product, id ProductID) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
