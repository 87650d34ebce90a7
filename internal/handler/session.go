package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/eservices-storefront/internal/domain/session"
	"github.com/xenking/eservices-storefront/internal/storefront"
)

// Session returns {"user": {...}} or {"user": null}.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	var (
		u  session.User
		ok bool
	)
	h.locked(func(s *storefront.Storefront) { u, ok = s.User(r.Context()) })

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("user", func(e *jx.Encoder) {
				if !ok {
					e.Null()
					return
				}
				encodeUser(e, u)
			})
		})
	})
}

// Login signs in with {"name": "...", "email": "..."}. Credentials are not
// checked.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var name, email string
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			name = v
			return err
		case "email":
			v, err := d.Str()
			email = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		mapError(w, r, err)
		return
	}

	var u session.User
	h.locked(func(s *storefront.Storefront) { u, err = s.Login(r.Context(), name, email) })
	if err != nil {
		mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeUser(e, u) })
}

// Logout clears the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var err error
	h.locked(func(s *storefront.Storefront) { err = s.Logout(r.Context()) })
	if err != nil {
		mapError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
