package funcref

import (
	"context"

	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/ipl"
)

// Origin is re-exported from ipl so callers of this package rarely need to
// import ipl directly just to build a Callable.
type Origin = ipl.Origin

const (
	OriginGuest = ipl.OriginGuest
	OriginHost  = ipl.OriginHost
)

// GuestCaller invokes the guest's exported call(fn, args) dispatcher for a
// guest-origin function reference. It is implemented by the owning bridge
// instance; funcref only depends on the narrow slice it needs.
type GuestCaller interface {
	CallGuestFunction(ctx context.Context, fnPtr uint32, args []any) (any, error)
}

// Callable is the portable decode of a function IPL value: it carries the
// triple (origin, ptr, instance) such that re-encoding it reproduces the
// original bits exactly, satisfying the callback-identity-preservation
// property without any instance-specific marker mechanism.
type Callable struct {
	Origin   Origin
	Ptr      uint32
	Registry *Registry   // used when Origin == OriginHost
	Caller   GuestCaller // used when Origin == OriginGuest
}

// Invoke dispatches to the host registry or the guest call export depending
// on Origin.
func (c Callable) Invoke(ctx context.Context, args ...any) (any, error) {
	switch c.Origin {
	case OriginHost:
		if c.Registry == nil {
			return nil, errors.InvalidInput(errors.PhaseCall, "host-origin callable has no registry")
		}
		return c.Registry.Invoke(c.Ptr, args)
	case OriginGuest:
		if c.Caller == nil {
			return nil, errors.InvalidInput(errors.PhaseCall, "guest-origin callable has no caller")
		}
		return c.Caller.CallGuestFunction(ctx, c.Ptr, args)
	default:
		return nil, errors.WrongOrigin(errors.PhaseCall, uint64(OriginHost), uint64(c.Origin))
	}
}
