// Command bridge loads a guest WASM module through the interplay bridge,
// lists its callable exports, and optionally calls one with a single
// string, number, or JSON-literal argument typed on the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/wippyai/interplay/bridge"
)

func main() {
	var (
		wasmFile = flag.String("wasm", "", "Path to guest wasm file")
		funcName = flag.String("func", "", "Export to call (optional)")
		strArg   = flag.String("arg", "", "Argument to pass: a number, true/false, null, a JSON array/object, or a raw string")
		list     = flag.Bool("list", false, "List exported functions and exit")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: bridge -wasm <file.wasm> [-func name] [-arg value]")
		fmt.Fprintln(os.Stderr, "       bridge -wasm <file.wasm> -list")
		os.Exit(1)
	}

	if err := run(*wasmFile, *funcName, *strArg, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseCLIArg turns a single -arg string into the host value Call should
// encode. Whole numbers parse as int64/uint64 rather than float64 so
// codec.InferTag (spec.md §4.2) routes them to IPL int/uint instead of
// float; everything else that parses as JSON (floats, true/false, null,
// arrays, objects) is decoded as its natural Go representation; anything
// that isn't valid JSON at all is passed through as a raw string.
func parseCLIArg(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func run(wasmFile, funcName, strArg string, listOnly bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	inst, err := bridge.FromBytes(ctx, bridge.NewEngine(), data)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}
	defer inst.Close(ctx)

	exports := inst.Exports()
	sort.Strings(exports)
	fmt.Printf("Module: %s\n\nExports:\n", wasmFile)
	for _, name := range exports {
		fmt.Printf("  %s\n", name)
	}

	if listOnly {
		return nil
	}

	if funcName == "" {
		if len(exports) != 1 {
			fmt.Println("\nNo function specified and the module does not have exactly one export.")
			fmt.Println("Use -func to specify which one to call.")
			return nil
		}
		funcName = exports[0]
	}

	fmt.Printf("\nCalling %s", funcName)
	var result any
	if strArg != "" {
		arg := parseCLIArg(strArg)
		fmt.Printf("(%v)...\n", arg)
		result, err = inst.Call(ctx, funcName, arg)
	} else {
		fmt.Printf("()...\n")
		result, err = inst.Call(ctx, funcName)
	}
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}

	fmt.Printf("Result: %v\n", result)
	return nil
}
