package funcref

import (
	"strconv"
	"sync"

	"github.com/wippyai/interplay/errors"
)

// HostFunc is a host callback reachable from the guest: it receives the
// decoded argument list and returns a single host value (or an error).
type HostFunc func(args []any) (any, error)

// Registry is the host-side mapping from integer key to host callable. Keys
// are assigned from a monotonically increasing counter and are never
// reused, so a registration cannot collide with an earlier, already-freed
// key still referenced by in-flight guest state.
type Registry struct {
	mu   sync.Mutex
	next uint32
	fns  map[uint32]HostFunc
}

// NewRegistry returns an empty callback registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[uint32]HostFunc)}
}

// Register stores fn under a freshly assigned key and returns it.
func (r *Registry) Register(fn HostFunc) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.next
	r.next++
	r.fns[key] = fn
	return key
}

// Lookup returns the callback stored under key, if any.
func (r *Registry) Lookup(key uint32) (HostFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.fns[key]
	return fn, ok
}

// Release removes key from the registry. Releasing an unknown key is a
// no-op: the freer (interplay's §4.7) may run over a value whose callback
// was already released.
func (r *Registry) Release(key uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fns, key)
}

// Len reports the number of live registrations. Exposed for tests that
// exercise register/release/register sequences against key collisions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fns)
}

// Invoke looks up key and calls it, or fails with NotFound if the
// registration was already released.
func (r *Registry) Invoke(key uint32, args []any) (any, error) {
	fn, ok := r.Lookup(key)
	if !ok {
		return nil, errors.NotFound(errors.PhaseHost, "callback", strconv.FormatUint(uint64(key), 10))
	}
	return fn(args)
}
