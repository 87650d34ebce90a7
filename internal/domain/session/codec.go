package session

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode renders u as {"name":...,"email":...,"isLoggedIn":...}.
func Encode(u User) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(u.Email) })
		e.Field("isLoggedIn", func(e *jx.Encoder) { e.Bool(u.LoggedIn) })
	})
	return append([]byte(nil), e.Bytes()...)
}

// Decode parses a session record. Unknown fields are ignored; anything but a
// single JSON object is rejected.
func Decode(data []byte) (User, error) {
	if !jx.Valid(data) {
		return User{}, errors.New("session record is not valid JSON")
	}
	var u User
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return User{}, errors.New("session record is not an object")
	}

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			u.Name, err = d.Str()
		case "email":
			u.Email, err = d.Str()
		case "isLoggedIn":
			u.LoggedIn, err = d.Bool()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	}); err != nil {
		return User{}, errors.Wrap(err, "decode session record")
	}
	return u, nil
}
