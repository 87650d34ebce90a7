// Package cart holds the visitor's cart: one line per service with a
// quantity of at least one.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
)

// EventKind identifies a cart notification.
type EventKind string

// EventOpened asks the presentation layer to show the cart. It is emitted on
// every Add.
const EventOpened EventKind = "opened"

// Event is delivered to listeners after a cart mutation has been applied.
type Event struct {
	Kind      EventKind
	ServiceID string
}

// Listener receives cart events.
type Listener func(Event)

// Line pairs a service with the quantity ordered.
type Line struct {
	Service  catalog.Service
	Quantity int
}

// ServiceID returns the id of the service on this line.
func (l Line) ServiceID() string {
	return l.Service.ID
}

// Total returns price multiplied by quantity.
func (l Line) Total() decimal.Decimal {
	return l.Service.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger is the mutable cart. Operations on unknown service ids are no-ops.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	lines     []Line
	index     map[string]int
	listeners []Listener
}

// NewLedger returns an empty cart.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Subscribe registers l for cart events.
func (c *Ledger) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Add puts one more unit of s in the cart and emits EventOpened.
func (c *Ledger) Add(s catalog.Service) {
	if i, ok := c.index[s.ID]; ok {
		c.lines[i].Quantity++
	} else {
		c.index[s.ID] = len(c.lines)
		c.lines = append(c.lines, Line{Service: s, Quantity: 1})
	}
	c.emit(Event{Kind: EventOpened, ServiceID: s.ID})
}

// Remove deletes the line for serviceID if present.
func (c *Ledger) Remove(serviceID string) {
	i, ok := c.index[serviceID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, serviceID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ServiceID()] = j
	}
}

// SetQuantity sets the quantity of an existing line, never below one.
// Removal only happens through Remove.
func (c *Ledger) SetQuantity(serviceID string, qty int) {
	i, ok := c.index[serviceID]
	if !ok {
		return
	}
	c.lines[i].Quantity = max(qty, 1)
}

// Increment adds one unit to an existing line.
func (c *Ledger) Increment(serviceID string) {
	if l, ok := c.Line(serviceID); ok {
		c.SetQuantity(serviceID, l.Quantity+1)
	}
}

// Decrement removes one unit from an existing line, stopping at one.
func (c *Ledger) Decrement(serviceID string) {
	if l, ok := c.Line(serviceID); ok {
		c.SetQuantity(serviceID, l.Quantity-1)
	}
}

// Line returns the line for serviceID.
func (c *Ledger) Line(serviceID string) (Line, bool) {
	i, ok := c.index[serviceID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Ledger) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Ledger) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the sum of all quantities.
func (c *Ledger) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// LineTotal returns the total for serviceID, or zero when it is not in the cart.
func (c *Ledger) LineTotal(serviceID string) decimal.Decimal {
	l, ok := c.Line(serviceID)
	if !ok {
		return decimal.Zero
	}
	return l.Total()
}

// Subtotal returns the sum of all line totals.
func (c *Ledger) Subtotal() decimal.Decimal {
	return Subtotal(c.lines)
}

// Subtotal sums the totals of lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

func (c *Ledger) emit(e Event) {
	for _, l := range c.listeners {
		l(e)
	}
}
