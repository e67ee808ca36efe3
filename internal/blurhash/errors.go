package blurhash

import (
	"errors"
	"fmt"
)

// Sentinel errors, usable with errors.Is.
var (
	// ErrInvalidComponents reports a component count outside [1, 9].
	ErrInvalidComponents = errors.New("components must be between 1 and 9")

	// ErrInvalidCharacter reports a character outside the base83 alphabet.
	ErrInvalidCharacter = errors.New("invalid base83 character")

	// ErrInvalidLength reports a hash or field whose length does not match
	// what its size flag or field width requires.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidPunch reports a non-positive or non-finite decode punch.
	ErrInvalidPunch = errors.New("punch must be a positive finite number")

	// ErrInvalidSize reports an output width or height outside
	// [1, MaxDecodeSize].
	ErrInvalidSize = errors.New("width and height must be between 1 and 4096")
)

// ConfigError is returned when the requested component counts are out of
// range. It is detected before any pixel is read.
type ConfigError struct {
	X int
	Y int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid components %dx%d: %v", e.X, e.Y, ErrInvalidComponents)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidComponents }

// InvariantError signals an internal inconsistency, such as a pixel buffer
// whose length does not match its declared dimensions. It indicates a bug in
// the caller or in this package and should never be silently ignored.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("blurhash: %s: invariant violated: %s", e.Op, e.Detail)
}

// HashError is returned when a hash string cannot be decoded. Decoding never
// produces partial results.
type HashError struct {
	Hash string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("invalid blurhash %q: %v", e.Hash, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }
