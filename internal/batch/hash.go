package batch

import (
	"context"

	"github.com/ironsheep/blurhash-tools/internal/blurhash"
)

// GridLoader produces the pixel grid for an image path.
type GridLoader interface {
	LoadGrid(path string) (*blurhash.PixelGrid, error)
}

// HashFiles loads and encodes every path with the same component counts.
//
// The components are validated before any job starts; an invalid
// configuration returns a *blurhash.ConfigError and no outcomes. Per-image
// load and encode failures are reported in the matching outcome.
func HashFiles(ctx context.Context, paths []string, loader GridLoader, comp blurhash.Components, opts Options) ([]Outcome, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	job := func(_ context.Context, path string) (string, error) {
		grid, err := loader.LoadGrid(path)
		if err != nil {
			return "", err
		}
		return blurhash.Encode(grid, comp)
	}
	return Run(ctx, paths, job, opts), nil
}
