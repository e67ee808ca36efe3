package imaging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindOptions controls how command-line inputs are expanded.
type FindOptions struct {
	// Force includes images that already have a sidecar file.
	Force bool
}

// FindResult is the expanded input list.
type FindResult struct {
	// Paths are the images to hash, in argument order. Directory contents
	// appear in lexical order.
	Paths []string

	// Skipped are images left out because their sidecar already exists.
	Skipped []string
}

// IsImageFile reports whether path has an extension the loader can decode.
func IsImageFile(path string) bool {
	return formatFromExt(path) != "unknown"
}

// FindImages expands inputs into image paths.
//
// Directories are walked recursively and only files with a known image
// extension are kept. Any other input is taken as a file and kept as-is, so
// a missing or unreadable file surfaces later as a *DecodeError for that one
// image. An empty input list, or an empty string, means the current
// directory. Duplicate paths are kept once.
func FindImages(inputs []string, opts FindOptions) (*FindResult, error) {
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	res := &FindResult{}
	seen := make(map[string]bool)
	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		if !opts.Force && HasSidecar(path) {
			res.Skipped = append(res.Skipped, path)
			return
		}
		res.Paths = append(res.Paths, path)
	}

	for _, input := range inputs {
		if input == "" {
			input = "."
		}

		info, err := os.Stat(input)
		if err != nil || !info.IsDir() {
			add(input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsImageFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", input, err)
		}
	}

	return res, nil
}
