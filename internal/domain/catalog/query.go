package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
)

// AllCategories selects every facet in a query.
const AllCategories = "All"

// ErrUnknownCategory is returned by ParseCategory for names outside the facet list.
var ErrUnknownCategory = errors.New("unknown category")

// SortMode orders query results.
type SortMode string

// Supported sort modes.
const (
	SortRecommended SortMode = "Recommended"
	SortPriceAsc    SortMode = "PriceAsc"
	SortPriceDesc   SortMode = "PriceDesc"
	SortRatingDesc  SortMode = "RatingDesc"
)

// ParseSortMode accepts canonical mode names and storefront labels such as
// "Price: Low to High". Unrecognized input selects SortRecommended.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priceasc", "price_asc", "price: low to high":
		return SortPriceAsc
	case "pricedesc", "price_desc", "price: high to low":
		return SortPriceDesc
	case "ratingdesc", "rating_desc", "rating":
		return SortRatingDesc
	default:
		return SortRecommended
	}
}

// ParseCategory maps a facet name to a query category. Empty input and "All"
// select every category; matching is case-insensitive.
func ParseCategory(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllCategories) {
		return AllCategories, nil
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return string(c), nil
		}
	}
	return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
}

// Params selects and orders a subset of the catalog.
type Params struct {
	// Category is a facet name or AllCategories. The zero value behaves as AllCategories.
	Category   string
	SearchText string
	SortBy     SortMode
}

// Query returns the services matching p in the requested order. It never
// modifies services and returns the same sequence for the same input.
func Query(services []Service, p Params) []Service {
	needle := strings.ToLower(p.SearchText)

	out := make([]Service, 0, len(services))
	for _, s := range services {
		if matchesCategory(s, p.Category) && matchesSearch(s, needle) {
			out = append(out, s)
		}
	}

	if less := comparator(p.SortBy); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

// Query runs Query over the whole catalog.
func (c *Catalog) Query(p Params) []Service {
	return Query(c.services, p)
}

func matchesCategory(s Service, category string) bool {
	return category == "" || category == AllCategories || string(s.Category) == category
}

func matchesSearch(s Service, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle)
}

// comparator returns nil for modes that keep catalog order.
func comparator(mode SortMode) func(a, b Service) int {
	switch mode {
	case SortPriceAsc:
		return func(a, b Service) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b Service) int { return b.Price.Cmp(a.Price) }
	case SortRatingDesc:
		return func(a, b Service) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		return nil
	}
}
