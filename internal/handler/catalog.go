package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

// Categories lists the facets with "All" first.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	cats := catalog.Categories()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		e.Str(catalog.AllCategories)
		for _, c := range cats {
			e.Str(string(c))
		}
		e.ArrEnd()
	})
}

// Services runs a catalog query from the category, q and sort parameters.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := catalog.ParseCategory(q.Get("category"))
	if err != nil {
		mapError(w, r, err)
		return
	}
	params := catalog.Params{
		Category:   category,
		SearchText: q.Get("q"),
		SortBy:     catalog.ParseSortMode(q.Get("sort")),
	}

	var services []catalog.Service
	h.locked(func(s *storefront.Storefront) { services = s.Services(params) })

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, svc := range services {
			encodeService(e, svc)
		}
		e.ArrEnd()
	})
}

// Service returns one catalog entry.
func (h *Handler) Service(w http.ResponseWriter, r *http.Request) {
	var (
		svc catalog.Service
		err error
	)
	h.locked(func(s *storefront.Storefront) { svc, err = s.Service(r.PathValue("id")) })
	if err != nil {
		mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeService(e, svc) })
}

// Pitch returns an AI sales pitch for a service. Advisor failures still
// produce 200 with fallback text.
func (h *Handler) Pitch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pitch, err := h.store.Pitch(r.Context(), id)
	if err != nil {
		mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("serviceId", func(e *jx.Encoder) { e.Str(id) })
			e.Field("pitch", func(e *jx.Encoder) { e.Str(pitch) })
		})
	})
}

// Recommend suggests categories for {"prompt": "..."}.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var prompt string
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if key != "prompt" {
			return d.Skip()
		}
		v, err := d.Str()
		prompt = v
		return err
	})
	if err == nil && strings.TrimSpace(prompt) == "" {
		err = errors.Wrap(errBadRequest, "prompt is required")
	}
	if err != nil {
		mapError(w, r, err)
		return
	}

	text := h.store.Recommend(r.Context(), prompt)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("recommendation", func(e *jx.Encoder) { e.Str(text) })
		})
	})
}
