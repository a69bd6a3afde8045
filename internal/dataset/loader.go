package dataset

import (
	"context"
	"fmt"
	"time"

	"scrollstory/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Dataset is one parsed source. Exactly one of Table or Tree is set.
type Dataset struct {
	Source Source
	Table  *Table
	Tree   *Tree
}

// LoadFailure reports the source that sank a batch.
type LoadFailure struct {
	Index  int
	Source Source
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load source %d (%s): %v", e.Index, e.Source, e.Err)
}

func (e *LoadFailure) Unwrap() error { return e.Err }

// Loader fetches batches of sources.
type Loader struct {
	fetcher     Fetcher
	concurrency int
	timeout     time.Duration
	cache       *ParseCache
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of in-flight fetches. Zero is unbounded.
func WithConcurrency(n int) Option {
	return func(l *Loader) { l.concurrency = n }
}

// WithTimeout bounds a whole batch.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithCache reuses parsed datasets whose fetched bytes are unchanged.
func WithCache(c *ParseCache) Option {
	return func(l *Loader) { l.cache = c }
}

// NewLoader returns a loader reading through f.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{fetcher: f}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses every source. The result slice is positionally
// aligned with sources regardless of completion order. If any source fails the
// batch is cancelled and a *LoadFailure is returned with no datasets.
func (l *Loader) Load(ctx context.Context, sources []Source) ([]*Dataset, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	results := make([]*Dataset, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			ds, err := l.loadOne(gctx, src)
			if err != nil {
				return &LoadFailure{Index: i, Source: src, Err: err}
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Loader("loaded %d sources in %s", len(sources), time.Since(start).Round(time.Millisecond))
	return results, nil
}

func (l *Loader) loadOne(ctx context.Context, src Source) (*Dataset, error) {
	src = src.Normalize()
	if err := src.Validate(); err != nil {
		return nil, err
	}
	data, err := l.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	logging.LoaderDebug("fetched %s (%d bytes)", src, len(data))

	if l.cache != nil {
		return l.cache.GetOrParse(src, data, func() (*Dataset, error) { return parse(src, data) })
	}
	return parse(src, data)
}

func parse(src Source, data []byte) (*Dataset, error) {
	var err error
	ds := &Dataset{Source: src}
	switch src.Format {
	case FormatTabular:
		ds.Table, err = ParseTable(data)
	case FormatTree:
		ds.Tree, err = ParseTree(data, src.Location)
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}
