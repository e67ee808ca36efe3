// Package config resolves run settings from defaults, an optional .env
// file, environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ironsheep/blurhash-tools/internal/blurhash"
)

// Environment variables read by FromEnv.
const (
	EnvComponentsX = "BLURHASH_COMPONENTS_X"
	EnvComponentsY = "BLURHASH_COMPONENTS_Y"
	EnvWorkers     = "BLURHASH_WORKERS"
	EnvMaxSize     = "BLURHASH_MAX_SIZE"
	EnvLogLevel    = "BLURHASH_LOG_LEVEL"
)

// Config holds every tunable of a run.
type Config struct {
	ComponentsX int
	ComponentsY int

	// Workers caps parallel encodes; 0 means one per CPU.
	Workers int

	// MaxSize downsizes inputs before hashing when positive.
	MaxSize int

	// Force re-hashes images that already have a sidecar.
	Force bool

	// NoSidecar prints hashes without writing .bh files.
	NoSidecar bool

	Debug bool
}

// Default returns the stock settings: 4x3 components, one worker per CPU,
// full-resolution input.
func Default() Config {
	return Config{ComponentsX: 4, ComponentsY: 3}
}

// Load returns Default overlaid with the given .env files and then the
// process environment. With no files named, ./.env is read if it exists;
// a named file that is missing is an error.
func Load(envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && !(len(envFiles) == 0 && errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	cfg := Default()
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overrides fields with any variables lookup reports as set.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvComponentsX, &c.ComponentsX},
		{EnvComponentsY, &c.ComponentsY},
		{EnvWorkers, &c.Workers},
		{EnvMaxSize, &c.MaxSize},
	}
	for _, v := range ints {
		s, ok := lookup(v.key)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", v.key, s, err)
		}
		*v.dst = n
	}
	if s, ok := lookup(EnvLogLevel); ok {
		c.Debug = s == "debug"
	}
	return nil
}

// RegisterFlags binds the encode flags to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.ComponentsX, "x", c.ComponentsX, "horizontal components (1-9)")
	fs.IntVar(&c.ComponentsY, "y", c.ComponentsY, "vertical components (1-9)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel encodes (0 = one per CPU)")
	fs.IntVar(&c.MaxSize, "max-size", c.MaxSize, "downscale inputs to fit NxN before hashing (0 = off)")
	fs.BoolVar(&c.Force, "force", c.Force, "re-hash images that already have a .bh file")
	fs.BoolVar(&c.NoSidecar, "no-sidecar", c.NoSidecar, "print hashes without writing .bh files")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
}

// Components returns the configured component counts.
func (c Config) Components() blurhash.Components {
	return blurhash.Components{X: c.ComponentsX, Y: c.ComponentsY}
}

// Validate rejects settings that would fail before any image is touched.
func (c Config) Validate() error {
	if err := c.Components().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("max-size must not be negative, got %d", c.MaxSize)
	}
	return nil
}
