package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/eservices-storefront/internal/domain/cart"
	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/domain/checkout"
	"github.com/xenking/eservices-storefront/internal/domain/session"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// decodeObject reads a body holding exactly one JSON object, calling fn for
// each field.
func decodeObject(w http.ResponseWriter, r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	if r.Body == nil {
		return errors.Wrap(errBadRequest, "empty body")
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return errors.Wrapf(errBadRequest, "read body: %v", err)
	}
	if !jx.Valid(data) {
		return errors.Wrap(errBadRequest, "body is not a single valid JSON value")
	}
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return errors.Wrap(errBadRequest, "body must be a JSON object")
	}
	if err := d.Obj(fn); err != nil {
		return errors.Wrapf(errBadRequest, "decode body: %v", err)
	}
	return nil
}

func money(e *jx.Encoder, v decimal.Decimal) {
	e.Raw([]byte(v.StringFixed(2)))
}

func encodeService(e *jx.Encoder, s catalog.Service) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(s.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(s.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(s.Description) })
		e.Field("longDescription", func(e *jx.Encoder) { e.Str(s.LongDescription) })
		e.Field("price", func(e *jx.Encoder) { money(e, s.Price) })
		e.Field("category", func(e *jx.Encoder) { e.Str(string(s.Category)) })
		e.Field("rating", func(e *jx.Encoder) { e.Float64(s.Rating) })
		e.Field("reviews", func(e *jx.Encoder) { e.Int(s.Reviews) })
		e.Field("image", func(e *jx.Encoder) { e.Str(s.Image) })
		e.Field("features", func(e *jx.Encoder) {
			e.ArrStart()
			for _, f := range s.Features {
				e.Str(f)
			}
			e.ArrEnd()
		})
	})
}

func encodeLines(e *jx.Encoder, lines []cart.Line) {
	e.ArrStart()
	for _, l := range lines {
		e.Obj(func(e *jx.Encoder) {
			e.Field("service", func(e *jx.Encoder) { encodeService(e, l.Service) })
			e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
			e.Field("lineTotal", func(e *jx.Encoder) { money(e, l.Total()) })
		})
	}
	e.ArrEnd()
}

func encodeCart(e *jx.Encoder, v storefront.CartView) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) { encodeLines(e, v.Lines) })
		e.Field("itemCount", func(e *jx.Encoder) { e.Int(v.ItemCount) })
		e.Field("subtotal", func(e *jx.Encoder) { money(e, v.Subtotal) })
		e.Field("drawerOpen", func(e *jx.Encoder) { e.Bool(v.DrawerOpen) })
	})
}

func encodeTotals(e *jx.Encoder, t checkout.Totals) {
	t = t.Rounded()
	e.Field("subtotal", func(e *jx.Encoder) { money(e, t.Subtotal) })
	e.Field("tax", func(e *jx.Encoder) { money(e, t.Tax) })
	e.Field("total", func(e *jx.Encoder) { money(e, t.Total) })
}

func encodeCheckout(e *jx.Encoder, v storefront.CheckoutView) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("view", func(e *jx.Encoder) { e.Str(string(v.View)) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(v.Status)) })
		e.Field("items", func(e *jx.Encoder) { encodeLines(e, v.Lines) })
		encodeTotals(e, v.Totals)
		e.Field("receipt", func(e *jx.Encoder) {
			if v.Receipt == nil {
				e.Null()
				return
			}
			rc := v.Receipt
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(rc.ID) })
				e.Field("confirmedAt", func(e *jx.Encoder) { e.Str(rc.ConfirmedAt.UTC().Format(time.RFC3339)) })
				e.Field("items", func(e *jx.Encoder) { encodeLines(e, rc.Lines) })
				encodeTotals(e, rc.Totals)
			})
		})
	})
}

func encodeUser(e *jx.Encoder, u session.User) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(u.Email) })
		e.Field("isLoggedIn", func(e *jx.Encoder) { e.Bool(u.LoggedIn) })
	})
}
