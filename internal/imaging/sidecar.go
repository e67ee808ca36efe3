package imaging

import (
	"fmt"
	"os"
)

// SidecarExt is appended to an image path to name its hash file.
const SidecarExt = ".bh"

// SidecarPath returns the hash file for an image: photo.jpg -> photo.jpg.bh.
func SidecarPath(imagePath string) string {
	return imagePath + SidecarExt
}

// HasSidecar reports whether the hash file for imagePath exists.
func HasSidecar(imagePath string) bool {
	_, err := os.Stat(SidecarPath(imagePath))
	return err == nil
}

// WriteSidecar stores hash next to the image and returns the file written.
func WriteSidecar(imagePath, hash string) (string, error) {
	out := SidecarPath(imagePath)
	if err := os.WriteFile(out, []byte(hash), 0o644); err != nil {
		return "", fmt.Errorf("failed to write sidecar: %w", err)
	}
	return out, nil
}
