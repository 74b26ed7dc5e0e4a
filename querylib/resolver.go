package querylib

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultTimeout is a default time given to each provider to
	// respond.
	DefaultTimeout = 5 * time.Second

	// DefaultWorkerPoolSize is a size of the worker pool which is used
	// in concurrent mode if nothing else is set.
	DefaultWorkerPoolSize = 64

	workerPoolExpireTime = time.Minute
)

var errEmptyIP = errors.New("provider has returned no ip address")

// ResolverOpts is a set of options for a new Resolver.
type ResolverOpts struct {
	// Providers is an ordered chain of IP providers. The first one
	// has the highest priority.
	Providers []Provider

	// GeoDB is an optional geo database which is used to augment
	// incomplete records.
	GeoDB GeoDB

	// Logger gets all soft errors. NoopLogger is used if nothing is
	// set.
	Logger Logger

	// Timeout is given to each provider call. DefaultTimeout is used if
	// nothing is set.
	Timeout time.Duration

	// Concurrent makes resolver query all providers at once. A priority
	// order is still respected: a winner is the first provider in chain
	// which has responded successfully, not the fastest one.
	Concurrent bool

	// WorkerPoolSize limits a number of simultaneous provider calls in
	// concurrent mode.
	WorkerPoolSize int
}

// Resolver walks a chain of providers and returns the first IP
// address it gets, optionally augmented with geo data.
//
// Resolver has no state between queries so it is safe to use it
// concurrently.
type Resolver struct {
	providers  []Provider
	geoDB      GeoDB
	logger     Logger
	timeout    time.Duration
	workerPool *ants.Pool
	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	closed     bool
}

type concurrentResult struct {
	index  int
	record Record
	err    error
}

// Query detects an IP address of the host.
//
// If withGeo is true and the first successful provider has returned an
// incomplete record, resolver asks a geo database for the rest. A
// database answer replaces a record completely but keeps the IP
// address. A database failure is never fatal: provider record is
// returned in that case.
//
// ErrNoIPAddress is returned if every provider has failed.
func (r *Resolver) Query(ctx context.Context, withGeo bool) (Record, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return Record{}, ErrResolverShutdown
	}

	var (
		rv Record
		ok bool
	)

	if r.workerPool != nil {
		rv, ok = r.queryConcurrent(ctx)
	} else {
		rv, ok = r.querySequential(ctx)
	}

	if !ok {
		return Record{}, ErrNoIPAddress
	}

	if withGeo && !rv.GeoComplete() && r.geoDB != nil {
		if geoRecord, err := r.lookupGeo(ctx, rv.IP); err != nil {
			r.logger.GeoDBError(rv.IP, err)
		} else {
			geoRecord.IP = rv.IP
			rv = geoRecord
		}
	}

	return rv, nil
}

// Shutdown releases a worker pool. Resolver returns
// ErrResolverShutdown after that.
func (r *Resolver) Shutdown() {
	r.rwmutex.Lock()
	defer r.rwmutex.Unlock()

	r.closed = true

	r.closeOnce.Do(func() {
		if r.workerPool != nil {
			r.workerPool.Release()
		}
	})
}

func (r *Resolver) querySequential(ctx context.Context) (Record, bool) {
	for _, v := range r.providers {
		if ctx.Err() != nil {
			return Record{}, false
		}

		rv, err := r.callProvider(ctx, v)
		if err == nil {
			return rv, true
		}

		r.logger.ProviderError(v.Name(), err)
	}

	return Record{}, false
}

func (r *Resolver) queryConcurrent(ctx context.Context) (Record, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChannel := make(chan concurrentResult, len(r.providers))

	for idx, v := range r.providers {
		index, provider := idx, v

		err := r.workerPool.Submit(func() {
			rv, err := r.callProvider(ctx, provider)
			resultChannel <- concurrentResult{index: index, record: rv, err: err}
		})
		if err != nil {
			resultChannel <- concurrentResult{
				index: index,
				err:   fmt.Errorf("cannot schedule a task: %w", err),
			}
		}
	}

	results := make([]*concurrentResult, len(r.providers))
	next := 0

	for next < len(results) {
		select {
		case <-ctx.Done():
			return Record{}, false
		case res := <-resultChannel:
			results[res.index] = &res
		}

		// everything before next has failed already
		for next < len(results) && results[next] != nil {
			if results[next].err == nil {
				return results[next].record, true
			}

			r.logger.ProviderError(r.providers[next].Name(), results[next].err)
			next++
		}
	}

	return Record{}, false
}

func (r *Resolver) callProvider(ctx context.Context, provider Provider) (rv Record, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			rv = Record{}
			err = fmt.Errorf("provider has panicked: %v", recovered)
		}
	}()

	rv, err = provider.Query(ctx)

	switch {
	case err != nil:
		return Record{}, err
	case !rv.OK():
		return Record{}, errEmptyIP
	}

	return rv, nil
}

func (r *Resolver) lookupGeo(ctx context.Context, ip net.IP) (rv Record, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			rv = Record{}
			err = fmt.Errorf("geo database has panicked: %v", recovered)
		}
	}()

	return r.geoDB.Lookup(ctx, ip)
}

// NewResolver creates a new resolver. An error is returned if there
// are no providers or a worker pool cannot be created.
func NewResolver(opts ResolverOpts) (*Resolver, error) {
	if len(opts.Providers) == 0 {
		return nil, errors.New("no providers are given")
	}

	rv := &Resolver{
		providers: append([]Provider(nil), opts.Providers...),
		geoDB:     opts.GeoDB,
		logger:    opts.Logger,
		timeout:   opts.Timeout,
	}

	if rv.logger == nil {
		rv.logger = NoopLogger{}
	}

	if rv.timeout <= 0 {
		rv.timeout = DefaultTimeout
	}

	if opts.Concurrent {
		poolSize := opts.WorkerPoolSize
		if poolSize <= 0 {
			poolSize = DefaultWorkerPoolSize
		}

		pool, err := ants.NewPool(poolSize, ants.WithExpiryDuration(workerPoolExpireTime))
		if err != nil {
			return nil, fmt.Errorf("cannot create a worker pool: %w", err)
		}

		rv.workerPool = pool
	}

	return rv, nil
}
