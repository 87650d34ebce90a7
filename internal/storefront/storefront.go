// Package storefront holds the state of one visitor: cart, cart drawer,
// checkout progress, session and AI advisor over a shared catalog.
//
// Storefront is not safe for concurrent use and callers serialise access.
// Recommend and Pitch only read immutable state and may run concurrently
// with other calls.
package storefront

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/eservices-storefront/internal/domain/advisor"
	"github.com/xenking/eservices-storefront/internal/domain/cart"
	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/domain/checkout"
	"github.com/xenking/eservices-storefront/internal/domain/session"
)

var (
	// ErrNotInCart is returned when a cart operation names a service that has no line.
	ErrNotInCart = errors.New("service not in cart")
	// ErrCartEmpty is returned when a checkout action is fired with nothing to buy.
	ErrCartEmpty = errors.New("cart is empty")
)

// CartView is a snapshot of the cart for presentation.
type CartView struct {
	Lines      []cart.Line
	ItemCount  int
	Subtotal   decimal.Decimal
	DrawerOpen bool
}

// CheckoutView is a snapshot of the checkout page.
type CheckoutView struct {
	View    checkout.View
	Status  checkout.Status
	Lines   []cart.Line
	Totals  checkout.Totals
	Receipt *checkout.Receipt
}

// Storefront is the application context of one visitor.
type Storefront struct {
	catalog  *catalog.Catalog
	cart     *cart.Ledger
	flow     *checkout.Flow
	sessions *session.Store
	advisor  *advisor.Advisor

	drawerOpen bool
}

// New creates a Storefront with an empty cart and a fresh checkout.
func New(c *catalog.Catalog, sessions *session.Store, adv *advisor.Advisor) *Storefront {
	s := &Storefront{
		catalog:  c,
		cart:     cart.NewLedger(),
		flow:     checkout.NewFlow(),
		sessions: sessions,
		advisor:  adv,
	}
	s.cart.Subscribe(func(e cart.Event) {
		if e.Kind == cart.EventOpened {
			s.drawerOpen = true
		}
	})
	return s
}

// Categories returns the catalog facets.
func (s *Storefront) Categories() []catalog.Category {
	return s.catalog.Categories()
}

// Services runs a catalog query.
func (s *Storefront) Services(p catalog.Params) []catalog.Service {
	return s.catalog.Query(p)
}

// Service returns one catalog entry.
func (s *Storefront) Service(id string) (catalog.Service, error) {
	return s.catalog.Get(id)
}

// Cart returns the current cart.
func (s *Storefront) Cart() CartView {
	return CartView{
		Lines:      s.cart.Lines(),
		ItemCount:  s.cart.ItemCount(),
		Subtotal:   s.cart.Subtotal(),
		DrawerOpen: s.drawerOpen,
	}
}

// AddToCart puts one unit of the service in the cart and opens the drawer.
func (s *Storefront) AddToCart(serviceID string) (cart.Line, error) {
	svc, err := s.catalog.Get(serviceID)
	if err != nil {
		return cart.Line{}, err
	}
	s.cart.Add(svc)
	line, _ := s.cart.Line(serviceID)
	return line, nil
}

// SetQuantity sets the quantity of a cart line. Values below one become one.
func (s *Storefront) SetQuantity(serviceID string, qty int) (cart.Line, error) {
	if _, ok := s.cart.Line(serviceID); !ok {
		return cart.Line{}, ErrNotInCart
	}
	s.cart.SetQuantity(serviceID, qty)
	line, _ := s.cart.Line(serviceID)
	return line, nil
}

// Increment adds one unit to a cart line.
func (s *Storefront) Increment(serviceID string) (cart.Line, error) {
	line, ok := s.cart.Line(serviceID)
	if !ok {
		return cart.Line{}, ErrNotInCart
	}
	return s.SetQuantity(serviceID, line.Quantity+1)
}

// Decrement removes one unit from a cart line, never going below one.
func (s *Storefront) Decrement(serviceID string) (cart.Line, error) {
	line, ok := s.cart.Line(serviceID)
	if !ok {
		return cart.Line{}, ErrNotInCart
	}
	return s.SetQuantity(serviceID, line.Quantity-1)
}

// RemoveFromCart drops a cart line. Removing an absent line is a no-op.
func (s *Storefront) RemoveFromCart(serviceID string) {
	s.cart.Remove(serviceID)
}

// CloseCart hides the cart drawer.
func (s *Storefront) CloseCart() {
	s.drawerOpen = false
}

// Checkout returns the checkout page state.
func (s *Storefront) Checkout() CheckoutView {
	lines := s.cart.Lines()
	return CheckoutView{
		View:    checkout.ViewFor(len(lines) == 0, s.flow.Status()),
		Status:  s.flow.Status(),
		Lines:   lines,
		Totals:  checkout.ComputeTotals(lines),
		Receipt: s.flow.Receipt(),
	}
}

// StartCheckout discards the current checkout and begins a new one.
func (s *Storefront) StartCheckout() CheckoutView {
	s.flow = checkout.NewFlow()
	return s.Checkout()
}

// FireCheckout applies a checkout action. The cart is kept after payment.
func (s *Storefront) FireCheckout(a checkout.Action) (CheckoutView, error) {
	if s.Checkout().View == checkout.ViewEmptyCart {
		return CheckoutView{}, ErrCartEmpty
	}
	if err := s.flow.Fire(a, s.cart.Lines()); err != nil {
		return CheckoutView{}, err
	}
	return s.Checkout(), nil
}

// User returns the signed-in user, if any.
func (s *Storefront) User(ctx context.Context) (session.User, bool) {
	return s.sessions.Load(ctx)
}

// Login signs a user in.
func (s *Storefront) Login(ctx context.Context, name, email string) (session.User, error) {
	return s.sessions.Login(ctx, name, email)
}

// Logout signs the user out.
func (s *Storefront) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Recommend asks the advisor which categories fit the shopper's need.
func (s *Storefront) Recommend(ctx context.Context, prompt string) string {
	return s.advisor.Recommend(ctx, prompt)
}

// Pitch asks the advisor for a sales pitch for a catalog service.
func (s *Storefront) Pitch(ctx context.Context, serviceID string) (string, error) {
	svc, err := s.catalog.Get(serviceID)
	if err != nil {
		return "", err
	}
	return s.advisor.Pitch(ctx, svc.Title), nil
}
