// Package catalogfile reads and writes the catalog as a JSON array of
// services. Paths ending in ".gz" are gzip-compressed.
package catalogfile

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
)

var _ catalog.Source = (*Source)(nil)

// Source loads services from a catalog file.
type Source struct {
	path string
}

// New returns a Source reading path.
func New(path string) *Source {
	return &Source{path: path}
}

// Services reads and decodes the file.
func (s *Source) Services(_ context.Context) ([]catalog.Service, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", s.path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if isGzip(s.path) {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", s.path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	services, err := Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.path)
	}
	return services, nil
}

// WriteFile encodes services to path, compressing when path ends in ".gz".
func WriteFile(path string, services []catalog.Service) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if !isGzip(path) {
		return Encode(f, services)
	}

	gz := pgzip.NewWriter(f)
	if err := Encode(gz, services); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.Wrapf(err, "flush gzip %s", path)
	}
	return nil
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Decode reads a JSON array of services from r. The input must hold exactly
// one JSON value.
func Decode(r io.Reader) ([]catalog.Service, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	if !jx.Valid(data) {
		return nil, errors.New("catalog is not a single valid JSON value")
	}
	d := jx.DecodeBytes(data)
	var services []catalog.Service
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := decodeService(d)
		if err != nil {
			return errors.Wrapf(err, "service #%d", len(services))
		}
		services = append(services, s)
		return nil
	}); err != nil {
		return nil, err
	}
	return services, nil
}

func decodeService(d *jx.Decoder) (catalog.Service, error) {
	var s catalog.Service
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.Str()
		case "title":
			s.Title, err = d.Str()
		case "description":
			s.Description, err = d.Str()
		case "longDescription":
			s.LongDescription, err = d.Str()
		case "price":
			s.Price, err = decodeDecimal(d)
		case "category":
			var c string
			c, err = d.Str()
			s.Category = catalog.Category(c)
		case "rating":
			s.Rating, err = d.Float64()
		case "reviews":
			s.Reviews, err = d.Int()
		case "image":
			s.Image, err = d.Str()
		case "features":
			err = d.Arr(func(d *jx.Decoder) error {
				f, err := d.Str()
				if err != nil {
					return err
				}
				s.Features = append(s.Features, f)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return s, err
}

// decodeDecimal accepts both JSON numbers and numeric strings.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() == jx.String {
		v, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(v)
	}
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(n.String())
}

// Encode writes services to w as a JSON array.
func Encode(w io.Writer, services []catalog.Service) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ArrStart()
	for _, s := range services {
		EncodeService(e, s)
	}
	e.ArrEnd()

	if _, err := w.Write(e.Bytes()); err != nil {
		return errors.Wrap(err, "write catalog")
	}
	return nil
}

// EncodeService writes one service object in the catalog file layout.
func EncodeService(e *jx.Encoder, s catalog.Service) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(s.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(s.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(s.Description) })
		e.Field("longDescription", func(e *jx.Encoder) { e.Str(s.LongDescription) })
		e.Field("price", func(e *jx.Encoder) { e.Raw([]byte(s.Price.String())) })
		e.Field("category", func(e *jx.Encoder) { e.Str(string(s.Category)) })
		e.Field("rating", func(e *jx.Encoder) { e.Float64(s.Rating) })
		e.Field("reviews", func(e *jx.Encoder) { e.Int(s.Reviews) })
		e.Field("image", func(e *jx.Encoder) { e.Str(s.Image) })
		e.Field("features", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, f := range s.Features {
					e.Str(f)
				}
			})
		})
	})
}
