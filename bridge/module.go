package bridge

import (
	"context"
	"io"
	"net/http"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/interplay/errors"
)

// reservedExports are guest exports used internally by the bridge and
// therefore never surfaced as callable instance methods (spec.md §6).
var reservedExports = map[string]bool{
	"alloc":  true,
	"free":   true,
	"memory": true,
	"call":   true,
}

func isReservedExport(name string) bool {
	return reservedExports[name]
}

// FromBytes compiles and instantiates a guest module from raw wasm bytes,
// producing a ready Instance: imports are installed under a "js" namespace
// and every non-reserved export becomes a callable instance method
// (spec.md §6).
func FromBytes(ctx context.Context, engine *Engine, wasmBytes []byte) (*Instance, error) {
	runtime := engine.newRuntime(ctx)
	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Load("compile guest module", err)
	}
	inst, err := instantiate(ctx, runtime, compiled)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, err
	}
	return inst, nil
}

// FromURL fetches module bytes from url and instantiates them. Fetch
// correctness (retries, caching, redirects) is outside this bridge's scope
// (spec.md §1) — this is a thin convenience wrapper required by spec.md
// §6's two-factory-entry-point surface.
func FromURL(ctx context.Context, engine *Engine, url string) (*Instance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Load("build module fetch request", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Load("fetch module bytes", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Load("fetch module bytes: unexpected status "+resp.Status, nil)
	}
	wasmBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Load("read module bytes", err)
	}
	return FromBytes(ctx, engine, wasmBytes)
}

// newRuntime builds a fresh wazero runtime per instance: each guest
// instantiation gets its own private "js" host module, so distinct
// Instances never contend over wazero's module-name namespace.
func (e *Engine) newRuntime(ctx context.Context) wazero.Runtime {
	runtimeCfg := wazero.NewRuntimeConfig()
	if e.cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(e.cfg.MemoryLimitPages)
	}
	return wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
}
