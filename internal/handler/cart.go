package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/eservices-storefront/internal/domain/cart"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

// Cart returns the cart and drawer state.
func (h *Handler) Cart(w http.ResponseWriter, _ *http.Request) {
	var v storefront.CartView
	h.locked(func(s *storefront.Storefront) { v = s.Cart() })
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, v) })
}

// AddItem adds one unit of {"serviceId": "..."} and opens the drawer.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var id string
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if key != "serviceId" {
			return d.Skip()
		}
		v, err := d.Str()
		id = v
		return err
	})
	if err == nil && id == "" {
		err = errors.Wrap(errBadRequest, "serviceId is required")
	}
	if err != nil {
		mapError(w, r, err)
		return
	}

	h.lineUpdate(w, r, func(s *storefront.Storefront) (cart.Line, error) {
		return s.AddToCart(id)
	})
}

// SetQuantity applies {"quantity": n}. Quantities below one are stored as one.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var (
		qty int
		set bool
	)
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		qty, set = v, err == nil
		return err
	})
	if err == nil && !set {
		err = errors.Wrap(errBadRequest, "quantity is required")
	}
	if err != nil {
		mapError(w, r, err)
		return
	}

	id := r.PathValue("id")
	h.lineUpdate(w, r, func(s *storefront.Storefront) (cart.Line, error) {
		return s.SetQuantity(id, qty)
	})
}

// Increment adds one unit to a line.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.lineUpdate(w, r, func(s *storefront.Storefront) (cart.Line, error) {
		return s.Increment(id)
	})
}

// Decrement removes one unit from a line, keeping at least one.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.lineUpdate(w, r, func(s *storefront.Storefront) (cart.Line, error) {
		return s.Decrement(id)
	})
}

// RemoveItem drops a line. Removing an absent line succeeds.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var v storefront.CartView
	h.locked(func(s *storefront.Storefront) {
		s.RemoveFromCart(id)
		v = s.Cart()
	})
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, v) })
}

// CloseCart hides the drawer.
func (h *Handler) CloseCart(w http.ResponseWriter, _ *http.Request) {
	var v storefront.CartView
	h.locked(func(s *storefront.Storefront) {
		s.CloseCart()
		v = s.Cart()
	})
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, v) })
}

// lineUpdate runs a cart mutation and responds with the whole cart.
func (h *Handler) lineUpdate(
	w http.ResponseWriter,
	r *http.Request,
	fn func(s *storefront.Storefront) (cart.Line, error),
) {
	var (
		v   storefront.CartView
		err error
	)
	h.locked(func(s *storefront.Storefront) {
		if _, err = fn(s); err == nil {
			v = s.Cart()
		}
	})
	if err != nil {
		mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, v) })
}
