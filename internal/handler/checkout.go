package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/eservices-storefront/internal/domain/checkout"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

// Checkout returns the checkout page state.
func (h *Handler) Checkout(w http.ResponseWriter, _ *http.Request) {
	var v storefront.CheckoutView
	h.locked(func(s *storefront.Storefront) { v = s.Checkout() })
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCheckout(e, v) })
}

// StartCheckout begins a new checkout, discarding any previous confirmation.
func (h *Handler) StartCheckout(w http.ResponseWriter, _ *http.Request) {
	var v storefront.CheckoutView
	h.locked(func(s *storefront.Storefront) { v = s.StartCheckout() })
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCheckout(e, v) })
}

// FireCheckout applies continue, back or pay. Invalid transitions yield 409.
func (h *Handler) FireCheckout(w http.ResponseWriter, r *http.Request) {
	action, err := checkout.ParseAction(r.PathValue("action"))
	if err != nil {
		mapError(w, r, err)
		return
	}

	var v storefront.CheckoutView
	h.locked(func(s *storefront.Storefront) { v, err = s.FireCheckout(action) })
	if err != nil {
		mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCheckout(e, v) })
}
