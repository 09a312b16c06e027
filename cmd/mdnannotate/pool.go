package main

import (
	"context"

	"github.com/alnah/go-mdnannotate"
)

// DocumentAnnotator is the interface for the annotation service.
type DocumentAnnotator interface {
	Annotate(ctx context.Context, input mdnannotate.Input) (*mdnannotate.Result, error)
}

// Compile-time interface implementation checks.
var (
	_ DocumentAnnotator = (*mdnannotate.Annotator)(nil)
	_ Pool              = (*poolAdapter)(nil)
)

// Pool abstracts annotator pool operations for testability.
type Pool interface {
	Acquire() (DocumentAnnotator, error)
	Release(DocumentAnnotator)
	Size() int
}

// poolAdapter exposes an mdnannotate.AnnotatorPool through Pool.
type poolAdapter struct {
	pool *mdnannotate.AnnotatorPool
}

// Acquire gets an Annotator from the underlying pool.
// A failed acquire returns a nil interface, not a typed nil.
func (p *poolAdapter) Acquire() (DocumentAnnotator, error) {
	a, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Release returns an Annotator to the underlying pool.
// Values not obtained from Acquire are ignored.
func (p *poolAdapter) Release(d DocumentAnnotator) {
	if a, ok := d.(*mdnannotate.Annotator); ok {
		p.pool.Release(a)
	}
}

// Size returns the pool capacity.
func (p *poolAdapter) Size() int {
	return p.pool.Size()
}
