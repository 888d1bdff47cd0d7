package index

import (
	"context"
	"encoding/hex"
	"runtime"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	recerrors "github.com/cohvault/recfile/errors"
	"github.com/cohvault/recfile/rec"
	"github.com/cohvault/recfile/recio"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of indexing one file.
type Result struct {
	Path string

	// Digest is set once the file has been read.
	Digest string

	// Entry is the indexed entry, or nil if the file was skipped or failed.
	Entry *Entry

	// Skipped is true if the replay was already indexed, or if another file
	// of the same run holds the same replay.
	Skipped bool

	// Warn holds problems with the replay that did not prevent decoding.
	Warn error

	// Err is the reason the file could not be indexed.
	Err error
}

// Indexer adds replay files to a DB.
type Indexer struct {
	DB *DB

	// Decoder decodes each replay. Its Stats field is ignored.
	Decoder rec.Decoder

	// Workers is the number of files processed at once. If zero or less, the
	// number of CPUs is used.
	Workers int

	mu      sync.Mutex
	filter  *bloom.BloomFilter
	claimed map[string]bool
}

// Run indexes each file in paths, returning one Result per path in the same
// order. A file that cannot be indexed does not stop the others; its Result
// holds the reason. The returned error is not nil only if ctx was cancelled.
func (ix *Indexer) Run(ctx context.Context, paths []string) ([]Result, error) {
	if err := ix.seed(ctx, len(paths)); err != nil {
		return nil, err
	}

	workers := ix.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}
			results[i] = ix.index(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Err combines the errors of results into one error. Each error is prefixed
// with the path of its file. Returns nil if no file failed.
func Err(results []Result) error {
	errs := make([]error, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, errors.Wrap(r.Err, r.Path))
		}
	}
	return recerrors.Union(errs...)
}

// seed fills the filter with the digests already in the index.
func (ix *Indexer) seed(ctx context.Context, n int) error {
	digests, err := ix.DB.Digests(ctx)
	if err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.filter = bloom.NewWithEstimates(uint(n+len(digests)+1), 0.001)
	for _, digest := range digests {
		ix.filter.AddString(digest)
	}
	ix.claimed = make(map[string]bool, n)
	return nil
}

// claim reserves digest for the current run. ok is false if another file of
// the run already holds it. indexed is true if digest may already be in the
// index.
func (ix *Indexer) claim(digest string) (ok, indexed bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.claimed[digest] {
		return false, false
	}
	ix.claimed[digest] = true
	if ix.filter.TestString(digest) {
		return true, true
	}
	ix.filter.AddString(digest)
	return true, false
}

func (ix *Indexer) index(ctx context.Context, path string) Result {
	r := Result{Path: path}
	b, err := recio.ReadFile(path)
	if err != nil {
		r.Err = err
		return r
	}
	sum := recio.Digest(b)
	r.Digest = hex.EncodeToString(sum[:])

	ok, indexed := ix.claim(r.Digest)
	if !ok {
		r.Skipped = true
		return r
	}
	// The filter may report false positives, so confirm with the index.
	if indexed {
		ok, err := ix.DB.Has(ctx, r.Digest)
		if err != nil {
			r.Err = err
			return r
		}
		if ok {
			r.Skipped = true
			return r
		}
	}

	dec := ix.Decoder
	dec.Stats = nil
	replay, warn, err := dec.DecodeBytes(b)
	r.Warn = warn
	if err != nil {
		r.Err = errors.Wrap(err, "decode")
		return r
	}

	e := NewEntry(path, sum, replay)
	if err := ix.DB.Put(ctx, e); err != nil {
		r.Err = err
		return r
	}
	r.Entry = &e
	return r
}
