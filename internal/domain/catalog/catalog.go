package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested service does not exist.
var ErrNotFound = errors.New("service not found")

// Category is one of the fixed catalog facets.
type Category string

// Facets offered by the storefront. The list is fixed and does not depend on
// which services currently exist.
const (
	Development Category = "Development"
	Design      Category = "Design"
	Marketing   Category = "Marketing"
	Writing     Category = "Writing"
	Business    Category = "Business"
)

var categories = []Category{Development, Design, Marketing, Writing, Business}

// Valid reports whether c is one of the known facets.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is a purchasable digital offering.
type Service struct {
	ID              string
	Title           string
	Description     string
	LongDescription string
	Price           decimal.Decimal
	Category        Category
	Rating          float64
	Reviews         int
	Image           string
	Features        []string
}

// InvalidServiceError describes a catalog entry that breaks a catalog invariant.
type InvalidServiceError struct {
	ServiceID string
	Reason    string
}

func (e *InvalidServiceError) Error() string {
	return fmt.Sprintf("invalid service %q: %s", e.ServiceID, e.Reason)
}

// Source loads the service list the catalog is built from.
type Source interface {
	Services(ctx context.Context) ([]Service, error)
}

// Catalog is the immutable, process-wide list of services.
type Catalog struct {
	services []Service
	byID     map[string]int
}

// New validates services and builds a Catalog preserving their order.
func New(services []Service) (*Catalog, error) {
	c := &Catalog{
		services: make([]Service, len(services)),
		byID:     make(map[string]int, len(services)),
	}
	for i, s := range services {
		if err := validate(s); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, &InvalidServiceError{ServiceID: s.ID, Reason: "duplicate id"}
		}
		s.Features = append([]string(nil), s.Features...)
		c.services[i] = s
		c.byID[s.ID] = i
	}
	return c, nil
}

// Load builds a Catalog from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	services, err := src.Services(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load services")
	}
	return New(services)
}

func validate(s Service) error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return &InvalidServiceError{ServiceID: s.ID, Reason: "empty id"}
	case !s.Category.Valid():
		return &InvalidServiceError{ServiceID: s.ID, Reason: fmt.Sprintf("unknown category %q", s.Category)}
	case s.Price.IsNegative():
		return &InvalidServiceError{ServiceID: s.ID, Reason: "negative price"}
	case s.Rating < 0 || s.Rating > 5:
		return &InvalidServiceError{ServiceID: s.ID, Reason: "rating out of range"}
	case s.Reviews < 0:
		return &InvalidServiceError{ServiceID: s.ID, Reason: "negative review count"}
	}
	return nil
}

// All returns every service in insertion order. The returned slice is a copy.
func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Get returns the service with the given id or ErrNotFound.
func (c *Catalog) Get(id string) (Service, error) {
	i, ok := c.byID[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return c.services[i], nil
}

// Len returns the number of services in the catalog.
func (c *Catalog) Len() int {
	return len(c.services)
}

// Categories returns the fixed facet list, including facets with no services.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Categories returns the fixed facet list. It is independent of the catalog
// contents and provided on Catalog for convenience.
func (c *Catalog) Categories() []Category {
	return Categories()
}
