package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
)

func newTestService(id string, price string) catalog.Service {
	return catalog.Service{
		ID:       id,
		Title:    "Service " + id,
		Price:    decimal.RequireFromString(price),
		Category: catalog.Design,
	}
}

func TestAdd_SameServiceTwice(t *testing.T) {
	c := NewLedger()
	a := newTestService("a", "10.00")

	c.Add(a)
	c.Add(a)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].ServiceID())
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_EmitsOpened(t *testing.T) {
	c := NewLedger()
	var events []Event
	c.Subscribe(func(e Event) { events = append(events, e) })

	c.Add(newTestService("a", "1"))
	c.Add(newTestService("a", "1"))
	c.Remove("a")

	assert.Equal(t, []Event{
		{Kind: EventOpened, ServiceID: "a"},
		{Kind: EventOpened, ServiceID: "a"},
	}, events)
}

func TestSubtotal(t *testing.T) {
	c := NewLedger()
	a := newTestService("a", "899")
	b := newTestService("b", "1200.50")

	c.Add(a)
	c.Add(a)
	c.Add(b)

	want := a.Price.Mul(decimal.NewFromInt(2)).Add(b.Price)
	assert.True(t, want.Equal(c.Subtotal()), "got %s want %s", c.Subtotal(), want)
	assert.Equal(t, 3, c.ItemCount())
	assert.True(t, decimal.RequireFromString("1798").Equal(c.LineTotal("a")))
	assert.True(t, decimal.Zero.Equal(c.LineTotal("missing")))
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want int
	}{
		{name: "zero floors at one", qty: 0, want: 1},
		{name: "negative floors at one", qty: -5, want: 1},
		{name: "positive is kept", qty: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLedger()
			c.Add(newTestService("a", "1"))

			c.SetQuantity("a", tt.qty)

			l, ok := c.Line("a")
			require.True(t, ok, "line must not be removed")
			assert.Equal(t, tt.want, l.Quantity)
		})
	}
}

func TestSetQuantity_Missing(t *testing.T) {
	c := NewLedger()
	c.Add(newTestService("a", "1"))

	c.SetQuantity("b", 3)

	assert.Equal(t, 1, c.ItemCount())
	_, ok := c.Line("b")
	assert.False(t, ok)
}

func TestIncrementDecrement(t *testing.T) {
	c := NewLedger()
	c.Add(newTestService("a", "1"))

	c.Increment("a")
	c.Increment("a")
	c.Decrement("a")
	l, _ := c.Line("a")
	assert.Equal(t, 2, l.Quantity)

	c.Decrement("a")
	c.Decrement("a")
	l, ok := c.Line("a")
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)

	c.Increment("missing")
	assert.Equal(t, 1, c.ItemCount())
}

func TestRemove(t *testing.T) {
	c := NewLedger()
	c.Add(newTestService("a", "1"))
	c.Add(newTestService("b", "2"))
	c.Add(newTestService("c", "3"))

	t.Run("missing id is a no-op", func(t *testing.T) {
		before := c.Lines()
		c.Remove("zzz")
		assert.Equal(t, before, c.Lines())
	})

	t.Run("keeps order of remaining lines", func(t *testing.T) {
		c.Remove("b")
		lines := c.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "a", lines[0].ServiceID())
		assert.Equal(t, "c", lines[1].ServiceID())

		// Index must still resolve after the shift.
		c.SetQuantity("c", 4)
		l, ok := c.Line("c")
		require.True(t, ok)
		assert.Equal(t, 4, l.Quantity)
	})

	t.Run("empty after removing everything", func(t *testing.T) {
		c.Remove("a")
		c.Remove("c")
		assert.True(t, c.IsEmpty())
		assert.True(t, decimal.Zero.Equal(c.Subtotal()))
	})
}

func TestLines_Snapshot(t *testing.T) {
	c := NewLedger()
	c.Add(newTestService("a", "1"))

	lines := c.Lines()
	lines[0].Quantity = 99

	l, _ := c.Line("a")
	assert.Equal(t, 1, l.Quantity)
}
