package topolib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultWorkerPoolSize = 4096

	workerPoolExpireTime = time.Minute
)

// ResolverOpts is a set of parameters for NewResolver.
type ResolverOpts struct {
	// Datasets to query. If precedence has no default order, an order
	// of this slice is used.
	Datasets []Dataset

	// Info is a list of load reports, it is only exposed as is.
	Info []DatasetInfo

	Precedence PrecedenceConfig

	// Attribution is a static notice attached to each found record.
	Attribution string

	Logger         Logger
	WorkerPoolSize int
}

// Resolver queries all datasets for a given address and merges their
// partial results according to precedence.
type Resolver struct {
	logger      Logger
	datasets    []Dataset
	info        []DatasetInfo
	precedence  *Precedence
	attribution string
	rwmutex     sync.RWMutex
	closeOnce   sync.Once
	workerPool  *ants.PoolWithFunc
	closed      bool
}

// Resolve resolves a single address. It returns *InvalidAddressError
// for malformed or local addresses and ErrNotFound if none of datasets
// matched.
func (r *Resolver) Resolve(raw string) (AttributedRecord, error) {
	addr, err := Normalize(raw)
	if err != nil {
		return AttributedRecord{}, err
	}

	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return AttributedRecord{Address: addr}, ErrResolverShutdown
	}

	return r.resolveAddress(addr)
}

// ResolveAll resolves a batch of addresses using a worker pool. Results
// have the same order as given addresses. If context is closed, only
// addresses scheduled before are resolved.
func (r *Resolver) ResolveAll(ctx context.Context, raws []string) ([]BatchResult, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return nil, ErrResolverShutdown
	}

	resultChannel := make(chan indexedBatchResult, len(raws))
	rv := make([]indexedBatchResult, 0, len(raws))
	wg := &sync.WaitGroup{}
	groupRequest := newPoolGroupRequest(ctx, resultChannel, wg, r.workerPool)

	for i, v := range raws {
		if err := groupRequest.Do(ctx, i, v); err != nil {
			break
		}
	}

	go func() {
		wg.Wait()
		close(resultChannel)
	}()

	for res := range resultChannel {
		rv = append(rv, res)
	}

	sort.Slice(rv, func(i, j int) bool {
		return rv[i].index < rv[j].index
	})

	results := make([]BatchResult, len(rv))

	for i := range rv {
		results[i] = rv[i].result
	}

	return results, nil
}

// DatasetInfo returns load reports of datasets.
func (r *Resolver) DatasetInfo() []DatasetInfo {
	rv := make([]DatasetInfo, len(r.info))

	copy(rv, r.info)

	return rv
}

// Shutdown releases a worker pool and closes datasets which hold some
// resources.
func (r *Resolver) Shutdown() {
	r.rwmutex.Lock()
	defer r.rwmutex.Unlock()

	r.closed = true

	r.closeOnce.Do(func() {
		r.workerPool.Release()

		for _, v := range r.datasets {
			if closer, ok := v.(io.Closer); ok {
				closer.Close() // nolint: errcheck
			}
		}
	})
}

func (r *Resolver) resolveBatchItem(args interface{}) {
	params := args.(*resolveRequest)
	defer params.wg.Done()

	result := BatchResult{IP: params.raw}

	addr, err := Normalize(params.raw)
	if err == nil {
		result.Record, err = r.resolveAddress(addr)
	}

	result.Err = err

	select {
	case <-params.ctx.Done():
	case params.resultChannel <- indexedBatchResult{index: params.index, result: result}:
	}
}

func (r *Resolver) resolveAddress(addr Address) (AttributedRecord, error) {
	rv := AttributedRecord{
		Address: addr,
	}
	matches := make(map[string]Fields, len(r.datasets))

	for _, v := range r.datasets {
		if !v.Supports(addr.Family) {
			continue
		}

		fields, err := lookupDataset(v, addr)

		switch {
		case errors.Is(err, ErrNoMatch):
			continue
		case err != nil:
			r.logger.LookupError(addr, v.Name(), err)

			continue
		case len(fields) == 0:
			continue
		}

		matches[v.Name()] = fields
	}

	if len(matches) == 0 {
		return rv, ErrNotFound
	}

	rv.Fields, rv.Sources = r.merge(matches)
	rv.Attribution = r.attribution

	return rv, nil
}

// lookupDataset converts a panic of the dataset into an error, so
// corrupted record of a single database does not break the whole
// resolving.
func lookupDataset(dataset Dataset, addr Address) (fields Fields, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fields = nil
			err = fmt.Errorf("%w: %v", ErrLookupPanic, rec)
		}
	}()

	return dataset.Lookup(addr)
}

func (r *Resolver) merge(matches map[string]Fields) (Fields, []string) {
	fields := make(Fields, len(FieldsOrder))
	sources := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, field := range FieldsOrder {
		for _, name := range r.precedence.Order(field) {
			partial, ok := matches[name]
			if !ok {
				continue
			}

			value, ok := partial[field]
			if !ok || value == nil || value == "" {
				continue
			}

			fields[field] = value

			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				sources = append(sources, name)
			}

			break
		}
	}

	return fields, sources
}

// NewResolver creates a new resolver. Dataset names have to be unique.
// Logger can be nil.
func NewResolver(opts ResolverOpts) (*Resolver, error) {
	names := make([]string, 0, len(opts.Datasets))
	seen := make(map[string]struct{}, len(opts.Datasets))

	for _, v := range opts.Datasets {
		name := v.Name()

		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("dataset %s is duplicated", name)
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	precedence, err := NewPrecedence(names, opts.Precedence)
	if err != nil {
		return nil, fmt.Errorf("cannot build precedence: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	rv := &Resolver{
		logger:      logger,
		datasets:    opts.Datasets,
		info:        opts.Info,
		precedence:  precedence,
		attribution: opts.Attribution,
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	rv.workerPool, err = ants.NewPoolWithFunc(poolSize, rv.resolveBatchItem,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	return rv, nil
}
