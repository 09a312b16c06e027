package mdnannotate

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// AnnotatorPool manages Annotators for parallel processing. Each Annotator
// has its own browser for PDF output; all of them share one Cache, so a
// batch of documents for the same specification fetches its spec map and
// dataset once. Annotators are created lazily on first acquire.
type AnnotatorPool struct {
	size       int
	opts       []Option
	cache      *Cache
	ownsCache  bool
	annotators []*Annotator
	sem        chan *Annotator
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewAnnotatorPool creates a pool with capacity for n Annotators built
// with opts. Without a WithCache option the pool creates an in-memory
// Cache and closes it with the pool. Options are validated here, so
// Acquire only fails on resource errors.
func NewAnnotatorPool(n int, opts ...Option) (*AnnotatorPool, error) {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	probe := &Annotator{}
	for _, opt := range opts {
		opt(probe)
	}

	p := &AnnotatorPool{
		size:       n,
		cache:      probe.cfg.cache,
		annotators: make([]*Annotator, 0, n),
		sem:        make(chan *Annotator, n),
	}

	if p.cache == nil {
		cacheCfg := probe.cfg.cacheCfg
		cacheCfg.Logger = probe.cfg.logger
		c, err := OpenCache(cacheCfg)
		if err != nil {
			return nil, err
		}
		p.cache = c
		p.ownsCache = true
	}
	p.opts = append(append([]Option{}, opts...), WithCache(p.cache))

	// Validate options once by building the first Annotator eagerly.
	first, err := NewAnnotator(p.opts...)
	if err != nil {
		if p.ownsCache {
			_ = p.cache.Close()
		}
		return nil, err
	}
	p.created = 1
	p.annotators = append(p.annotators, first)
	p.sem <- first

	return p, nil
}

// Acquire gets an Annotator from the pool, creating one if needed.
// Blocks if all Annotators are in use.
func (p *AnnotatorPool) Acquire() (*Annotator, error) {
	select {
	case a := <-p.sem:
		return a, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		a, err := NewAnnotator(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.annotators = append(p.annotators, a)
		p.mu.Unlock()
		return a, nil
	}
	p.mu.Unlock()

	return <-p.sem, nil
}

// Release returns an Annotator to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *AnnotatorPool) Release(a *Annotator) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- a
}

// Cache returns the cache shared by the pool's Annotators.
func (p *AnnotatorPool) Cache() *Cache {
	return p.cache
}

// Close releases all browsers and, if the pool created it, the cache.
// Returns an aggregated error if several resources fail to close.
func (p *AnnotatorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	annotators := p.annotators
	p.mu.Unlock()

	var errs []error
	for _, a := range annotators {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.ownsCache {
		if err := p.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *AnnotatorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
