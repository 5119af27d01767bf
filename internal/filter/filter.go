// Package filter is the pure product filtering and sorting engine. Apply
// never mutates its input and has no side effects, so the presentation layer
// can recompute views freely.
package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"SnowStore/internal/catalog"
)

type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// DefaultSort matches the storefront's initial dropdown selection.
const DefaultSort = SortNameAsc

type PriceBucket string

const (
	BucketUnder500  PriceBucket = "0-500"
	Bucket500to750  PriceBucket = "500-750"
	Bucket750to1000 PriceBucket = "750-1000"
	Bucket1000to2K  PriceBucket = "1000-2000"
	Bucket2KPlus    PriceBucket = "2000+"
)

// Contains reports whether a price falls in the bucket. Buckets are
// half-open on the right except the last. The empty bucket and unknown
// bucket keys are unconstrained.
func (b PriceBucket) Contains(price float64) bool {
	switch b {
	case BucketUnder500:
		return price < 500
	case Bucket500to750:
		return price >= 500 && price < 750
	case Bucket750to1000:
		return price >= 750 && price < 1000
	case Bucket1000to2K:
		return price >= 1000 && price < 2000
	case Bucket2KPlus:
		return price >= 2000
	default:
		return true
	}
}

// State holds the user's current filter controls.
type State struct {
	SearchTerm  string
	Vendor      string
	PriceBucket PriceBucket
	SortKey     SortKey
}

// Apply returns the ordered subset of products matching the state. The sort
// is stable and applied only to the filtered subset; ties keep their
// relative catalog order. An unknown sort key leaves the subset in catalog
// order.
func Apply(products []catalog.Product, s State) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !p.MatchesSearch(s.SearchTerm) {
			continue
		}
		if s.Vendor != "" && p.Vendor != s.Vendor {
			continue
		}
		if !s.PriceBucket.Contains(p.Price()) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, s.SortKey)
	return out
}

func sortProducts(products []catalog.Product, key SortKey) {
	switch key {
	case SortNameAsc, SortNameDesc:
		c := collate.New(language.English)
		desc := key == SortNameDesc
		sort.SliceStable(products, func(i, j int) bool {
			cmp := c.CompareString(products[i].Title, products[j].Title)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price() < products[j].Price()
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price() > products[j].Price()
		})
	}
}
