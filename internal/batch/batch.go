// Package batch runs the blur hash pipeline over many images in parallel.
//
// Jobs are independent: each one writes only its own slot of the result
// slice, so a failing or panicking image never affects its siblings and no
// lock is held while pixels are processed. Results are always returned in
// input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/ironsheep/blurhash-tools/internal/blurhash"
)

// ErrNotProcessed marks inputs that were never started because the batch
// was cancelled.
var ErrNotProcessed = errors.New("not processed")

// Outcome is the result for one input.
type Outcome struct {
	Index int
	Path  string
	Hash  string
	Err   error
}

// OK reports whether the input produced a hash.
func (o Outcome) OK() bool { return o.Err == nil }

// Job computes the hash for one input path.
type Job func(ctx context.Context, path string) (string, error)

// Options tunes a batch run.
type Options struct {
	// Workers caps the number of concurrent jobs. Zero or negative means
	// one per available CPU.
	Workers int

	// Debug enables per-job log lines.
	Debug bool
}

func (o Options) workerCount(jobs int) int {
	n := runtime.NumCPU()
	if o.Workers > 0 && o.Workers < n {
		n = o.Workers
	}
	if n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes job for every path on a bounded worker pool.
//
// Once ctx is cancelled no further job is started; jobs already running are
// allowed to finish. Inputs that never started get an error wrapping both
// ErrNotProcessed and the context error.
func Run(ctx context.Context, paths []string, job Job, opts Options) []Outcome {
	results := make([]Outcome, len(paths))
	if len(paths) == 0 {
		return results
	}

	workers := opts.workerCount(len(paths))
	if opts.Debug {
		log.Printf("batch: %d inputs on %d workers", len(paths), workers)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if err := ctx.Err(); err != nil {
					results[i] = notProcessed(i, paths[i], err)
					continue
				}
				results[i] = runOne(ctx, i, paths[i], job)
				if opts.Debug {
					log.Printf("batch: finished %s (err=%v)", paths[i], results[i].Err)
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(paths); next++ {
		select {
		case <-ctx.Done():
			break feed
		case indices <- next:
		}
	}
	close(indices)
	wg.Wait()

	for i := next; i < len(paths); i++ {
		results[i] = notProcessed(i, paths[i], ctx.Err())
	}
	return results
}

func notProcessed(i int, path string, cause error) Outcome {
	return Outcome{Index: i, Path: path, Err: fmt.Errorf("%w: %w", ErrNotProcessed, cause)}
}

// runOne executes a single job, converting a panic into an invariant error
// for that input only.
func runOne(ctx context.Context, i int, path string, job Job) (out Outcome) {
	out = Outcome{Index: i, Path: path}
	defer func() {
		if r := recover(); r != nil {
			out.Hash = ""
			out.Err = &blurhash.InvariantError{Op: "encode " + path, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()
	out.Hash, out.Err = job(ctx, path)
	return out
}

// Failed counts the outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
