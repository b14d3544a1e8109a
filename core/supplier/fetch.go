package supplier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"parts-manager/core/metrics"
	"parts-manager/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of querying every source for one part number.
type Result struct {
	Sources reconcile.Sources
	// Failures holds the error of each configured source that failed.
	Failures map[reconcile.Supplier]error
	// Configured is the number of sources that were configured.
	Configured int
}

// AllFailed reports whether at least one source was configured and every
// configured source failed.
func (r Result) AllFailed() bool {
	return r.Configured > 0 && len(r.Failures) == r.Configured
}

// Err joins the source failures in supplier order, or returns nil.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Failures))
	for s := range r.Failures {
		names = append(names, string(s))
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, n := range names {
		errs = append(errs, r.Failures[reconcile.Supplier(n)])
	}
	return errors.Join(errs...)
}

// Gather queries all sources of the set concurrently.
// A failing source contributes nothing and is recorded in Result.Failures;
// unconfigured sources are skipped. Gather returns as soon as ctx is done:
// sources still running are recorded as failed with ctx.Err() and their late
// answers are discarded. Gather only returns an error when ctx is done.
func Gather(ctx context.Context, set Set, q Query, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := Result{
		Sources:  reconcile.Sources{PartNumber: q.PartNumber},
		Failures: make(map[reconcile.Supplier]error),
	}

	var (
		mu      sync.Mutex
		closed  bool
		pending = make(map[reconcile.Supplier]time.Time)
	)

	record := func(name reconcile.Supplier, count int, started time.Time, err error, apply func()) {
		metrics.SupplierFetchDuration.WithLabelValues(string(name)).Observe(time.Since(started).Seconds())

		mu.Lock()
		defer mu.Unlock()
		if closed {
			logger.Debug("Discarding late supplier answer",
				zap.String("supplier", string(name)),
				zap.String("part_number", q.PartNumber))
			return
		}
		delete(pending, name)
		switch {
		case errors.Is(err, ErrNotConfigured):
			metrics.SupplierFetchesTotal.WithLabelValues(string(name), metrics.OutcomeNotConfigured).Inc()
			return
		case err != nil:
			res.Configured++
			res.Failures[name] = err
			metrics.SupplierFetchesTotal.WithLabelValues(string(name), metrics.OutcomeError).Inc()
			logger.Warn("Supplier fetch failed",
				zap.String("supplier", string(name)),
				zap.String("part_number", q.PartNumber),
				zap.Error(err))
			return
		case count == 0:
			res.Configured++
			metrics.SupplierFetchesTotal.WithLabelValues(string(name), metrics.OutcomeEmpty).Inc()
		default:
			res.Configured++
			apply()
			metrics.SupplierFetchesTotal.WithLabelValues(string(name), metrics.OutcomeOK).Inc()
			metrics.SupplierListings.WithLabelValues(string(name)).Add(float64(count))
		}
		logger.Debug("Supplier fetch completed",
			zap.String("supplier", string(name)),
			zap.String("part_number", q.PartNumber),
			zap.Int("results", count),
			zap.Duration("elapsed", time.Since(started)))
	}

	var g errgroup.Group

	start := func(name reconcile.Supplier, fetch func() (int, func(), error)) {
		started := time.Now()
		mu.Lock()
		pending[name] = started
		mu.Unlock()
		g.Go(func() error {
			count, apply, err := fetch()
			record(name, count, started, err, apply)
			return nil
		})
	}

	listing := func(src ListingSource, dst *[]reconcile.Candidate) {
		if src == nil {
			return
		}
		start(src.Supplier(), func() (int, func(), error) {
			listings, err := fetchListings(ctx, src, q)
			return len(listings), func() { *dst = listings }, err
		})
	}
	listing(set.Primary, &res.Sources.Primary)
	listing(set.Secondary, &res.Sources.Secondary)

	if set.Datasheets != nil {
		start(set.Datasheets.Supplier(), func() (int, func(), error) {
			urls, err := fetchDatasheets(ctx, set.Datasheets, q.PartNumber)
			return len(urls), func() { res.Sources.Datasheets = urls }, err
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	closed = true
	err := ctx.Err()
	for name, started := range pending {
		res.Configured++
		res.Failures[name] = fmt.Errorf("%s fetch abandoned: %w", name, err)
		metrics.SupplierFetchesTotal.WithLabelValues(string(name), metrics.OutcomeError).Inc()
		logger.Warn("Supplier fetch abandoned",
			zap.String("supplier", string(name)),
			zap.String("part_number", q.PartNumber),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
	}
	return res, err
}

// fetchListings calls the source and converts a panic into an error.
func fetchListings(ctx context.Context, src ListingSource, q Query) (out []reconcile.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%s source panicked: %v", src.Supplier(), r)
		}
	}()
	return src.Fetch(ctx, q)
}

func fetchDatasheets(ctx context.Context, src DatasheetSource, partNumber string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%s source panicked: %v", src.Supplier(), r)
		}
	}()
	return src.FetchDatasheets(ctx, partNumber)
}
