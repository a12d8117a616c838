// Package functor implements the type-erased bound-method invoker and its
// registry: a pair of (owned object, method) erased into the uniform
// operation Archive -> Archive, keyed by name.
//
// The source splats a std::tuple of decoded arguments across a member
// function call using an index-sequence template
// (klass/functor.hxx + protocol/index-sequence.hxx). Go generics can
// express the same "decode N typed arguments, call, encode the return"
// shape, but Go has no variadic type parameter list to mirror the template
// parameter pack Ps..., so this package provides FunctorN for N = 0..3,
// covering every arity the round-trip and Signal/Reply scenarios exercise
// (setName(string), getName(), and two- and three-argument calls). A
// REDESIGN note in DESIGN.md records this bound.
package functor

import (
	"github.com/bitboom/rmi/pkg/archive"
)

// AbstractFunctor is the type-erased invoker every FunctorN implements:
// decode arguments from the archive, invoke the bound method, encode the
// result into a fresh archive.
type AbstractFunctor interface {
	Invoke(a *archive.Archive) (*archive.Archive, error)
}
