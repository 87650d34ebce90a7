// Command catalog-export writes a catalog file for the API server's
// -catalog-file option. Without -in it exports the built-in seed catalog;
// with -in it validates an existing file and rewrites it, which converts
// between plain and gzip JSON by file suffix.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/storage/catalogfile"
)

func main() {
	var in, out string

	flag.StringVar(&in, "in", "", "catalog file to convert; built-in seed when empty")
	flag.StringVar(&out, "out", "catalog.json", "output file, gzip-compressed when it ends in .gz")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	n, err := run(ctx, in, out)
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog exported", slog.String("file", out), slog.Int("services", n))
}

func run(ctx context.Context, in, out string) (int, error) {
	var src catalog.Source = catalog.SeedSource{}
	if in != "" {
		src = catalogfile.New(in)
	}

	// Load validates ids, categories, prices and ratings before writing.
	c, err := catalog.Load(ctx, src)
	if err != nil {
		return 0, errors.Wrap(err, "load catalog")
	}
	if err := catalogfile.WriteFile(out, c.All()); err != nil {
		return 0, errors.Wrap(err, "write catalog")
	}
	return c.Len(), nil
}
