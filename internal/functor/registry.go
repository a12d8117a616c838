package functor

import (
	"fmt"
	"sync"

	"github.com/bitboom/rmi/pkg/rmierr"
)

// Registry maps method name to a bound, type-erased functor. Entries share
// ownership of the underlying object via whatever reference the caller
// bound the functor with; the registry holds the only ref to the bound
// object outside the host's own handle.
type Registry struct {
	mu sync.Mutex
	m  map[string]AbstractFunctor
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]AbstractFunctor)}
}

// Expose inserts (name, f) into the registry. Re-exposing an existing name
// replaces the previous binding, matching expose()'s behavior in the
// source, which is a plain map insert with no duplicate check (unlike the
// reactor's Add, which does check: method names are under the host's own
// control, fds are not).
func (r *Registry) Expose(name string, f AbstractFunctor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m[name] = f
}

// Len reports how many methods are currently exposed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.m)
}

// Lookup returns the functor bound to name, or ErrUnknownMethod.
func (r *Registry) Lookup(name string) (AbstractFunctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", rmierr.ErrUnknownMethod, name)
	}
	return f, nil
}
