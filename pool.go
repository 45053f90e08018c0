package journal

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one converter is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent converters; each one is a LibreOffice or
	// Chrome process holding a few hundred MB.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for converter child processes.
	cpuDivisor = 2
)

// pdfConverter turns an exported DOCX into a PDF next to it.
type pdfConverter interface {
	ToPDF(ctx context.Context, docxPath string, doc *Document) (pdfPath string, err error)
	Close() error
}

// ConverterPool bounds concurrent fixed-layout conversions.
// Converters are created lazily on first acquire.
type ConverterPool struct {
	size       int
	factory    func() (pdfConverter, error)
	converters []pdfConverter
	sem        chan pdfConverter
	mu         sync.Mutex
	created    int
	closed     bool
}

// newConverterPool creates a pool with capacity for n converters.
func newConverterPool(n int, factory func() (pdfConverter, error)) *ConverterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ConverterPool{
		size:       n,
		factory:    factory,
		converters: make([]pdfConverter, 0, n),
		sem:        make(chan pdfConverter, n),
	}
}

// Acquire gets a converter, creating one if the pool is not full.
// Blocks until one is released or ctx is done. A factory error is returned
// as is and leaves the slot free for the next caller.
func (p *ConverterPool) Acquire(ctx context.Context) (pdfConverter, error) {
	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		c, err := p.factory()
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.created++
		p.converters = append(p.converters, c)
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	}
}

// Release returns a converter to the pool.
// The send never blocks: at most size converters exist.
func (p *ConverterPool) Release(c pdfConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- c
}

// Close closes every converter created so far.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
