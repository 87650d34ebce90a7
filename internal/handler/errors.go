package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/domain/checkout"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(code) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

// mapError converts domain errors to API error responses.
func mapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	case errors.Is(err, storefront.ErrNotInCart):
		writeError(w, http.StatusNotFound, storefront.ErrNotInCart.Error())
		return
	case errors.Is(err, storefront.ErrCartEmpty):
		writeError(w, http.StatusConflict, storefront.ErrCartEmpty.Error())
		return
	case errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, checkout.ErrUnknownAction),
		errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var te *checkout.TransitionError
	if errors.As(err, &te) {
		writeError(w, http.StatusConflict, te.Error())
		return
	}

	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
