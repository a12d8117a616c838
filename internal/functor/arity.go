package functor

import (
	"fmt"

	"github.com/bitboom/rmi/pkg/archive"
	"github.com/bitboom/rmi/pkg/rmierr"
)

// Functor0 binds a zero-argument method R() on *K.
type Functor0[K any, R any] struct {
	instance *K
	method   func(*K) R
}

func NewFunctor0[K any, R any](instance *K, method func(*K) R) (*Functor0[K, R], error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil instance", rmierr.ErrBadBinding)
	}
	return &Functor0[K, R]{instance: instance, method: method}, nil
}

// Call invokes the bound method directly with typed arguments, bypassing
// the archive -- a parallel-call path for in-process (test) use.
func (f *Functor0[K, R]) Call() R {
	return f.method(f.instance)
}

func (f *Functor0[K, R]) Invoke(a *archive.Archive) (*archive.Archive, error) {
	ret := f.Call()

	out := archive.New()
	if err := archive.Pack(out, ret); err != nil {
		return nil, err
	}
	return out, nil
}

// Functor1 binds a one-argument method R(P1) on *K.
type Functor1[K any, R any, P1 any] struct {
	instance *K
	method   func(*K, P1) R
}

func NewFunctor1[K any, R any, P1 any](instance *K, method func(*K, P1) R) (*Functor1[K, R, P1], error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil instance", rmierr.ErrBadBinding)
	}
	return &Functor1[K, R, P1]{instance: instance, method: method}, nil
}

func (f *Functor1[K, R, P1]) Call(p1 P1) R {
	return f.method(f.instance, p1)
}

func (f *Functor1[K, R, P1]) Invoke(a *archive.Archive) (*archive.Archive, error) {
	var p1 P1
	if err := archive.Transform(a, &p1); err != nil {
		return nil, err
	}

	ret := f.Call(p1)

	out := archive.New()
	if err := archive.Pack(out, ret); err != nil {
		return nil, err
	}
	return out, nil
}

// Functor2 binds a two-argument method R(P1, P2) on *K.
type Functor2[K any, R any, P1 any, P2 any] struct {
	instance *K
	method   func(*K, P1, P2) R
}

func NewFunctor2[K any, R any, P1 any, P2 any](instance *K, method func(*K, P1, P2) R) (*Functor2[K, R, P1, P2], error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil instance", rmierr.ErrBadBinding)
	}
	return &Functor2[K, R, P1, P2]{instance: instance, method: method}, nil
}

func (f *Functor2[K, R, P1, P2]) Call(p1 P1, p2 P2) R {
	return f.method(f.instance, p1, p2)
}

func (f *Functor2[K, R, P1, P2]) Invoke(a *archive.Archive) (*archive.Archive, error) {
	var p1 P1
	var p2 P2
	if err := archive.Transform(a, &p1, &p2); err != nil {
		return nil, err
	}

	ret := f.Call(p1, p2)

	out := archive.New()
	if err := archive.Pack(out, ret); err != nil {
		return nil, err
	}
	return out, nil
}

// Functor3 binds a three-argument method R(P1, P2, P3) on *K.
type Functor3[K any, R any, P1 any, P2 any, P3 any] struct {
	instance *K
	method   func(*K, P1, P2, P3) R
}

func NewFunctor3[K any, R any, P1 any, P2 any, P3 any](instance *K, method func(*K, P1, P2, P3) R) (*Functor3[K, R, P1, P2, P3], error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil instance", rmierr.ErrBadBinding)
	}
	return &Functor3[K, R, P1, P2, P3]{instance: instance, method: method}, nil
}

func (f *Functor3[K, R, P1, P2, P3]) Call(p1 P1, p2 P2, p3 P3) R {
	return f.method(f.instance, p1, p2, p3)
}

func (f *Functor3[K, R, P1, P2, P3]) Invoke(a *archive.Archive) (*archive.Archive, error) {
	var p1 P1
	var p2 P2
	var p3 P3
	if err := archive.Transform(a, &p1, &p2, &p3); err != nil {
		return nil, err
	}

	ret := f.Call(p1, p2, p3)

	out := archive.New()
	if err := archive.Pack(out, ret); err != nil {
		return nil, err
	}
	return out, nil
}
