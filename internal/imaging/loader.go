package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/blurhash-tools/internal/blurhash"
)

// DecodeError reports that an image file could not be read or parsed.
// It is local to one image and never aborts a batch.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// The MCP server keeps one cache for its lifetime so repeated tool calls on
// the same file skip disk I/O. Batch runs from the command line do not use a
// cache, since every image is read exactly once.
//
// Cached images remain in memory until Evict or Clear is called.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, decoding it first if needed.
//
// EXIF orientation is applied, so a rotated JPEG hashes the way it is
// displayed. Different spellings of the same path produce separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := openImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

func openImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())}
	}
	return img, nil
}

// Loader turns image files into pixel grids for the encoder.
//
// The zero value reads every file from disk at full resolution.
type Loader struct {
	// Cache, when set, is consulted before disk.
	Cache *ImageCache

	// MaxSize, when positive, shrinks images so neither side exceeds it
	// before hashing. Hashing cost is proportional to the pixel count, and
	// a blur hash keeps no detail a thumbnail would lose. Leave it at zero
	// for hashes identical to other encoders.
	MaxSize int
}

// Load reads path and applies MaxSize.
func (l *Loader) Load(path string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if l.Cache != nil {
		img, err = l.Cache.Load(path)
	} else {
		img, err = openImage(path)
	}
	if err != nil {
		return nil, err
	}

	if b := img.Bounds(); l.MaxSize > 0 && (b.Dx() > l.MaxSize || b.Dy() > l.MaxSize) {
		img = imaging.Fit(img, l.MaxSize, l.MaxSize, imaging.Box)
	}
	return img, nil
}

// LoadGrid reads path into a PixelGrid. Failures are *DecodeError values.
func (l *Loader) LoadGrid(path string) (*blurhash.PixelGrid, error) {
	img, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return blurhash.GridFromImage(img), nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels, after EXIF orientation.
	Width int `json:"width"`

	// Height is the image height in pixels, after EXIF orientation.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "webp", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}
