package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/unimarket/storefront/internal/models"
)

type Sort string

// Sort values match the original UI's select options.
const (
	SortName      Sort = "name"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
)

// Query describes one catalog filter pass. A zero MaxPrice means no
// upper bound; the range is inclusive on both ends.
type Query struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	Sort     Sort
}

// Filter applies category, search and price-range predicates and then a
// stable sort. Pure and deterministic: the same inputs always come back
// in the same order, and the input slice is never mutated.
func Filter(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))

	search := strings.ToLower(q.Search)
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		cl := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return cl.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	return out
}
