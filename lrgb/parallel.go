package lrgb

import (
	"context"
	"runtime"

	"github.com/mrjoshuak/go-lrgb/compression"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of pixels handed to a worker at a time.
// Cancellation is checked between chunks.
const chunkSize = 1 << 16

type options struct {
	// workers is the number of goroutines. 0 means runtime.GOMAXPROCS(0).
	workers   int
	gzipLevel compression.Level
	history   bool
	origin    string
}

func defaultOptions() options {
	return options{
		gzipLevel: compression.LevelDefault,
		history:   true,
		origin:    "lrgb",
	}
}

// Option configures Compose and Merge.
type Option func(*options)

// WithWorkers sets how many goroutines compute the composite. n <= 0 uses
// runtime.GOMAXPROCS(0); 1 runs sequentially. The result does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithGzipLevel sets the compression level Merge uses for ".gz" outputs.
func WithGzipLevel(level compression.Level) Option {
	return func(o *options) {
		o.gzipLevel = level
	}
}

// WithHistory controls whether Merge records the inputs as HISTORY cards
// in the output header.
func WithHistory(enabled bool) Option {
	return func(o *options) {
		o.history = enabled
	}
}

// WithOrigin sets the ORIGIN keyword Merge writes.
func WithOrigin(origin string) Option {
	return func(o *options) {
		o.origin = origin
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) effectiveWorkers() int {
	if o.workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.workers
}

// parallelRanges calls fn over [0, n) split into disjoint [start, end)
// ranges. Ranges never overlap, so fn may write to its range of a shared
// output without locking. The first error cancels the remaining ranges.
func parallelRanges(ctx context.Context, n, workers int, fn func(start, end int)) error {
	if workers <= 1 || n <= chunkSize {
		for start := 0; start < n; start += chunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(start, min(start+chunkSize, n))
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		start := start
		end := min(start+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}
