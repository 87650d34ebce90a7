// Package handler exposes the storefront over a JSON HTTP API.
package handler

import (
	"net/http"
	"sync"

	"github.com/xenking/eservices-storefront/internal/storefront"
	"github.com/xenking/eservices-storefront/pkg/httpmiddleware"
)

// maxBodySize limits request bodies.
const maxBodySize = 64 << 10

// Options holds non-dependency configuration for the Handler.
type Options struct {
	// AILimit wraps the endpoints that call the AI advisor. Nil means no limit.
	AILimit httpmiddleware.Middleware
}

// Handler serves the storefront API. It serialises access to the storefront,
// except for advisor calls which do not touch visitor state.
type Handler struct {
	mu    sync.Mutex
	store *storefront.Storefront

	aiLimit httpmiddleware.Middleware
}

// New constructs a Handler.
func New(store *storefront.Storefront, opts Options) *Handler {
	limit := opts.AILimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{store: store, aiLimit: limit}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.Categories)
	mux.HandleFunc("GET /api/services", h.Services)
	mux.HandleFunc("GET /api/services/{id}", h.Service)
	mux.Handle("GET /api/services/{id}/pitch", h.aiLimit(http.HandlerFunc(h.Pitch)))
	mux.Handle("POST /api/recommendations", h.aiLimit(http.HandlerFunc(h.Recommend)))

	mux.HandleFunc("GET /api/cart", h.Cart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.SetQuantity)
	mux.HandleFunc("POST /api/cart/items/{id}/increment", h.Increment)
	mux.HandleFunc("POST /api/cart/items/{id}/decrement", h.Decrement)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("POST /api/cart/close", h.CloseCart)

	mux.HandleFunc("GET /api/checkout", h.Checkout)
	mux.HandleFunc("POST /api/checkout", h.StartCheckout)
	mux.HandleFunc("POST /api/checkout/{action}", h.FireCheckout)

	mux.HandleFunc("GET /api/session", h.Session)
	mux.HandleFunc("POST /api/session", h.Login)
	mux.HandleFunc("DELETE /api/session", h.Logout)
}

// locked runs fn with the storefront lock held.
func (h *Handler) locked(fn func(s *storefront.Storefront)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.store)
}
