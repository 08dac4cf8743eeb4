package bridge

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interplay/codec"
	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/funcref"
	"github.com/wippyai/interplay/ipl"
)

// Instance is one live guest module instantiation: its linear memory, its
// alloc/free exports, its host callback registry, and every non-reserved
// export exposed as a callable method.
type Instance struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	mod      api.Module

	memory    *guestMemory
	allocator *guestAllocator
	registry  *funcref.Registry
	encoder   *codec.Encoder
	decoder   *codec.Decoder

	callExport api.Function
	exports    map[string]api.Function

	// hostErr holds a protocol error raised by the js.call host import
	// during the call currently in flight (e.g. WrongOrigin,
	// UnknownVariant). spec.md §7 requires every error to surface to the
	// caller of the host-side method that initiated the call with no
	// silent fallback; since the guest may ignore whatever placeholder
	// value a failed host import returns and carry on regardless, Call
	// and CallGuestFunction check this field once the guest call returns
	// and prefer it over whatever the guest itself produced.
	hostErr error
}

// setHostErr records err as the current call's host-import failure,
// keeping the first one raised if several occur before the guest returns.
func (i *Instance) setHostErr(err error) {
	if i.hostErr == nil {
		i.hostErr = err
	}
}

// takeHostErr returns and clears the pending host-import error, if any.
func (i *Instance) takeHostErr() error {
	err := i.hostErr
	i.hostErr = nil
	return err
}

// instantiate builds the "js" host module, instantiates the guest module
// against compiled, and wires up the memory/allocator/registry/codec
// plumbing shared by every call.
func instantiate(ctx context.Context, runtime wazero.Runtime, compiled wazero.CompiledModule) (*Instance, error) {
	inst := &Instance{
		runtime:  runtime,
		compiled: compiled,
		registry: funcref.NewRegistry(),
	}

	if _, err := buildHostModule(runtime, inst).Instantiate(ctx); err != nil {
		return nil, errors.Instantiation(err)
	}

	guestMod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	mem := guestMod.Memory()
	if mem == nil {
		return nil, errors.Load("guest module exports no memory", nil)
	}
	allocFn := guestMod.ExportedFunction("alloc")
	freeFn := guestMod.ExportedFunction("free")
	if allocFn == nil || freeFn == nil {
		return nil, errors.Load("guest module missing alloc/free exports", nil)
	}

	inst.mod = guestMod
	inst.memory = wrapMemory(mem)
	inst.allocator = wrapAllocator(ctx, allocFn, freeFn)
	inst.encoder = codec.New(inst.memory, inst.allocator, inst.registry)
	inst.decoder = codec.NewDecoder(inst.memory, inst.registry, inst)
	inst.callExport = guestMod.ExportedFunction("call")

	inst.exports = make(map[string]api.Function)
	for name := range compiled.ExportedFunctions() {
		if isReservedExport(name) {
			continue
		}
		if fn := guestMod.ExportedFunction(name); fn != nil {
			inst.exports[name] = fn
		}
	}

	return inst, nil
}

// Close releases the instance's private wazero runtime, which tears down
// both the guest module and its "js" host module.
func (i *Instance) Close(ctx context.Context) error {
	if err := i.runtime.Close(ctx); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "close instance runtime")
	}
	return nil
}

// Exports lists the guest's callable (non-reserved) export names.
func (i *Instance) Exports() []string {
	names := make([]string, 0, len(i.exports))
	for name := range i.exports {
		names = append(names, name)
	}
	return names
}

// Call is the host-side call wrapper (spec.md §4.5): encode each argument,
// flatten to halves, invoke the guest export, decode the return, then free
// every allocation the call produced — arguments always, the return value
// only if decoding it materialized a new host value.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := i.exports[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "export", name)
	}

	encodedArgs, err := i.encoder.EncodeAll(args)
	if err != nil {
		return nil, err
	}

	params := make([]uint64, 0, len(encodedArgs)*2)
	for _, v := range encodedArgs {
		lo, hi := v.Halves()
		params = append(params, lo, hi)
	}

	results, err := fn.Call(ctx, params...)
	hostErr := i.takeHostErr()
	freeErr := i.freeAll(encodedArgs)
	if hostErr != nil {
		return nil, hostErr
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindInvalidData, err, "call guest export "+name)
	}
	if freeErr != nil {
		return nil, freeErr
	}

	if len(results) != 2 {
		return nil, errors.InvalidData(errors.PhaseCall, []string{name}, "guest export did not return two i64 halves")
	}
	returned, err := ipl.FromHalves(results[0], results[1])
	if err != nil {
		return nil, err
	}
	if returned.Tag == ipl.TagVoid {
		return nil, nil
	}

	decoded, err := i.decoder.Decode(returned)
	if err != nil {
		return nil, err
	}
	if err := codec.Free(i.memory, i.allocator, i.registry, returned); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (i *Instance) freeAll(values []ipl.Value) error {
	for _, v := range values {
		if err := codec.Free(i.memory, i.allocator, i.registry, v); err != nil {
			return err
		}
	}
	return nil
}

// CallGuestFunction implements funcref.GuestCaller: it is invoked when a
// decoded guest-origin Callable is called from host code. It encodes args
// as a single array IPL value and invokes the guest's symmetric call(fn,
// args) dispatcher (spec.md §4.4).
func (i *Instance) CallGuestFunction(ctx context.Context, fnPtr uint32, args []any) (any, error) {
	if i.callExport == nil {
		return nil, errors.NotFound(errors.PhaseCall, "export", "call")
	}

	fnValue := ipl.NewFunctionDetail(fnPtr, ipl.OriginGuest)
	argsValue, err := i.encoder.Encode(args)
	if err != nil {
		return nil, err
	}

	fnLo, fnHi := fnValue.Halves()
	argsLo, argsHi := argsValue.Halves()
	results, err := i.callExport.Call(ctx, fnLo, fnHi, argsLo, argsHi)
	hostErr := i.takeHostErr()
	freeErr := codec.Free(i.memory, i.allocator, i.registry, argsValue)
	if hostErr != nil {
		return nil, hostErr
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindInvalidData, err, "call guest call() dispatcher")
	}
	if freeErr != nil {
		return nil, freeErr
	}

	if len(results) != 2 {
		return nil, errors.InvalidData(errors.PhaseCall, []string{"call"}, "guest call() did not return two i64 halves")
	}
	returned, err := ipl.FromHalves(results[0], results[1])
	if err != nil {
		return nil, err
	}
	if returned.Tag == ipl.TagVoid {
		return nil, nil
	}
	decoded, err := i.decoder.Decode(returned)
	if err != nil {
		return nil, err
	}
	if err := codec.Free(i.memory, i.allocator, i.registry, returned); err != nil {
		return nil, err
	}
	return decoded, nil
}
