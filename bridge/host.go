package bridge

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interplay/errors"
	"github.com/wippyai/interplay/ipl"
)

// buildHostModule installs the two host→guest entry points spec.md §4.6
// requires, under the single "js" namespace. Both closures read inst's
// memory/encoder/decoder/registry fields at call time (through the captured
// inst pointer), so it is safe to build the host module before the
// guest module — whose instantiation fills those fields — exists.
func buildHostModule(rt wazero.Runtime, inst *Instance) wazero.HostModuleBuilder {
	b := rt.NewHostModuleBuilder("js")

	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, low, high uint64) {
			hostLog(inst, low, high)
		}).
		Export("log")

	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, fnLow, fnHigh, argsLow, argsHigh uint64) (uint64, uint64) {
			return hostCall(ctx, mod, inst, fnLow, fnHigh, argsLow, argsHigh)
		}).
		Export("call")

	return b
}

// hostLog decodes a single IPL value; strings go to the bridge logger
// verbatim, everything else is best-effort stringified.
func hostLog(inst *Instance, low, high uint64) {
	v, err := ipl.FromHalves(low, high)
	if err != nil {
		Logger().Sugar().Warnf("js.log: malformed IPL value: %v", err)
		return
	}

	if v.Tag == ipl.TagString {
		s, err := inst.decoder.Decode(v)
		if err == nil {
			Logger().Sugar().Info(s)
			return
		}
	}

	decoded, err := inst.decoder.Decode(v)
	if err != nil {
		Logger().Sugar().Warnf("js.log: %v", err)
		return
	}
	Logger().Sugar().Infof("%v", decoded)
}

// hostCall dispatches a guest-initiated call into a registered host
// callback: fn must carry origin=host, else WrongOrigin. args is decoded
// as an array and spread as positional parameters.
//
// spec.md §7 requires every error to reach the caller of the host-side
// method that started the call, with no silent fallback — so a protocol
// violation here is recorded on inst (surfaced once the guest call returns,
// per Instance.Call/CallGuestFunction) rather than swallowed behind a
// placeholder void return. The module is also closed so any wasm
// instructions the guest executes after a violation can't keep running as
// if nothing happened.
func hostCall(ctx context.Context, mod api.Module, inst *Instance, fnLow, fnHigh, argsLow, argsHigh uint64) (uint64, uint64) {
	result, err := doHostCall(ctx, inst, fnLow, fnHigh, argsLow, argsHigh)
	if err != nil {
		Logger().Sugar().Errorf("js.call: %v", err)
		inst.setHostErr(err)
		_ = mod.CloseWithExitCode(ctx, 1)
		return ipl.NewVoid().Halves()
	}
	return result.Halves()
}

func doHostCall(ctx context.Context, inst *Instance, fnLow, fnHigh, argsLow, argsHigh uint64) (ipl.Value, error) {
	fnVal, err := ipl.FromHalves(fnLow, fnHigh)
	if err != nil {
		return ipl.Value{}, err
	}
	if fnVal.Tag != ipl.TagFunction {
		return ipl.Value{}, errors.UnsupportedType(errors.PhaseHost, nil, fnVal.Tag.String())
	}
	ptr, origin := fnVal.Function()
	if origin != ipl.OriginHost {
		return ipl.Value{}, errors.WrongOrigin(errors.PhaseHost, uint64(ipl.OriginHost), uint64(origin))
	}

	argsValue, err := ipl.FromHalves(argsLow, argsHigh)
	if err != nil {
		return ipl.Value{}, err
	}
	decodedArgs, err := inst.decoder.Decode(argsValue)
	if err != nil {
		return ipl.Value{}, err
	}
	args, _ := decodedArgs.([]any)

	result, err := inst.registry.Invoke(ptr, args)
	if err != nil {
		return ipl.Value{}, err
	}
	return inst.encoder.Encode(result)
}
