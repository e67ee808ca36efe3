package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/blurhash-tools/internal/batch"
	"github.com/ironsheep/blurhash-tools/internal/blurhash"
	"github.com/ironsheep/blurhash-tools/internal/config"
	"github.com/ironsheep/blurhash-tools/internal/imaging"
	"github.com/ironsheep/blurhash-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // at least one image failed
	exitUsage   = 2 // bad flags or configuration, nothing was processed
)

func main() {
	// Configure logging to stderr (stdout carries results, or MCP in serve mode)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "blurhash %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return exitOK
		case "--help", "-h", "help":
			printUsage(stdout)
			return exitOK
		case "encode":
			return runEncode(args[1:], stdout, stderr)
		case "decode":
			return runDecode(args[1:], stdout, stderr)
		case "serve":
			return runServe(args[1:], stderr)
		}
	}
	return runEncode(args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "blurhash - compute BlurHash placeholders for images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blurhash [encode] [options] [paths...]   Hash files and directories (default: .)")
	fmt.Fprintln(w, "  blurhash decode [options] <hash>         Render a hash to an image file")
	fmt.Fprintln(w, "  blurhash serve [options]                 Run as an MCP server over stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'blurhash encode -h' or 'blurhash decode -h' for command options.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from ./.env):")
	fmt.Fprintln(w, "  "+config.EnvComponentsX+", "+config.EnvComponentsY+"    Component counts (1-9)")
	fmt.Fprintln(w, "  "+config.EnvWorkers+"                            Parallel encodes")
	fmt.Fprintln(w, "  "+config.EnvMaxSize+"                           Downscale limit in pixels")
	fmt.Fprintln(w, "  "+config.EnvLogLevel+"=debug                    Enable debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Each hash is printed as 'path<TAB>hash' and stored in path.bh.")
	fmt.Fprintln(w, "Exit status is 1 if any image failed and 2 on invalid options.")
}

// loadConfig resolves defaults, .env, the environment and then flags.
// The returned code is non-zero when the caller should stop.
func loadConfig(name string, args []string, stderr io.Writer) (config.Config, *flag.FlagSet, int) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return cfg, nil, exitUsage
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, nil, exitOK
		}
		return cfg, nil, exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return cfg, nil, exitUsage
	}

	if cfg.Debug {
		log.Printf("blurhash v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("config: %+v", cfg)
	}
	return cfg, fs, exitOK
}

func runEncode(args []string, stdout, stderr io.Writer) int {
	cfg, fs, code := loadConfig("encode", args, stderr)
	if fs == nil {
		return code
	}

	found, err := imaging.FindImages(fs.Args(), imaging.FindOptions{Force: cfg.Force})
	if err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return exitFailure
	}
	for _, path := range found.Skipped {
		fmt.Fprintf(stderr, "skipping %s: blurhash file already exists\n", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := &imaging.Loader{MaxSize: cfg.MaxSize}
	outcomes, err := batch.HashFiles(ctx, found.Paths, loader, cfg.Components(),
		batch.Options{Workers: cfg.Workers, Debug: cfg.Debug})
	if err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return exitUsage
	}

	failed := 0
	for _, o := range outcomes {
		if o.OK() && !cfg.NoSidecar {
			if _, err := imaging.WriteSidecar(o.Path, o.Hash); err != nil {
				o.Hash, o.Err = "", err
			}
		}
		if !o.OK() {
			failed++
			fmt.Fprintf(stdout, "%s\terror: %v\n", o.Path, reason(o.Err))
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", o.Path, o.Hash)
	}

	if cfg.Debug {
		log.Printf("hashed %d of %d images", len(outcomes)-failed, len(outcomes))
	}
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}

// reason drops the path prefix of a decode error, which the output line
// already carries.
func reason(err error) error {
	var de *imaging.DecodeError
	if errors.As(err, &de) {
		return de.Err
	}
	return err
}

func runDecode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	width := fs.Int("width", 32, fmt.Sprintf("output width in pixels (1-%d)", blurhash.MaxDecodeSize))
	height := fs.Int("height", 32, fmt.Sprintf("output height in pixels (1-%d)", blurhash.MaxDecodeSize))
	punch := fs.Float64("punch", 1.0, "contrast multiplier for the AC components")
	out := fs.String("o", "blurhash.png", "output file (.png or .jpg)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: blurhash decode [options] <hash>")
		return exitUsage
	}

	img, err := blurhash.Decode(fs.Arg(0), *width, *height, *punch)
	if err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return exitFailure
	}
	if err := imaging.SavePreview(*out, img); err != nil {
		fmt.Fprintf(stderr, "blurhash: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, *out)
	return exitOK
}

func runServe(args []string, stderr io.Writer) int {
	cfg, fs, code := loadConfig("serve", args, stderr)
	if fs == nil {
		return code
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		return exitFailure
	}
	return exitOK
}
