package bridge

// guestFixtureWAT is a hand-authored guest module compiled through the
// wat package for the bridge's integration tests. It exports the reserved
// alloc/free/memory/call names spec.md §4.6 requires of a guest (its call
// export is a stub that always returns void) plus a handful of exports
// exercising every IPL variant across a real wazero instantiation, not
// fakes.
//
// Linear memory layout: static string constants live below offset 1024;
// everything at 1024 and above is a simple bump-allocated heap (free is a
// no-op — this fixture never reclaims, which is a valid allocator as far
// as the bridge's ownership protocol is concerned).
const guestFixtureWAT = `(module
  (import "js" "log" (func $jsLog (param i64 i64)))
  (import "js" "call" (func $jsCall (param i64 i64 i64 i64) (result i64 i64)))

  (memory (export "memory") 4)
  (global $heap (mut i32) (i32.const 1024))

  (data (i32.const 8) "Hello ")
  (data (i32.const 16) "!")
  (data (i32.const 24) "Hello")
  (data (i32.const 32) "World")
  (data (i32.const 48) "{\"message\":\"Greetings\"}")

  (func (export "alloc") (param $len i32) (result i32)
    (local $ptr i32)
    (local.set $ptr (global.get $heap))
    (global.set $heap (i32.add (global.get $heap) (local.get $len)))
    (global.set $heap (i32.and (i32.add (global.get $heap) (i32.const 7)) (i32.const -8)))
    (local.get $ptr))

  (func (export "free") (param i32 i32))

  (func (export "call") (param i64 i64 i64 i64) (result i64 i64)
    (i64.const 0)
    (i64.const 0))

  ;; detail64 -> (lo, hi), per ipl.Value.Halves for a detail that fits in 64 bits.
  (func $pack64 (param $tag i64) (param $detail i64) (result i64 i64)
    (i64.or (local.get $tag) (i64.shl (i64.and (local.get $detail) (i64.const 0xFFFFFFFFFFFFFFF)) (i64.const 4)))
    (i64.shr_u (local.get $detail) (i64.const 60)))

  ;; (lo, hi) -> detail64, the inverse of $pack64.
  (func $unpack64 (param $lo i64) (param $hi i64) (result i64)
    (i64.or (i64.shr_u (local.get $lo) (i64.const 4)) (i64.shl (local.get $hi) (i64.const 60))))

  (func $packPtrLen (param $tag i64) (param $ptr i32) (param $len i32) (result i64 i64)
    (call $pack64
      (local.get $tag)
      (i64.or (i64.extend_i32_u (local.get $ptr)) (i64.shl (i64.extend_i32_u (local.get $len)) (i64.const 32)))))

  (func $unpackPtr (param $detail i64) (result i32)
    (i32.wrap_i64 (i64.and (local.get $detail) (i64.const 0xFFFFFFFF))))

  (func $unpackLen (param $detail i64) (result i32)
    (i32.wrap_i64 (i64.shr_u (local.get $detail) (i64.const 32))))

  (func $allocCopyPack (param $tag i64) (param $srcPtr i32) (param $len i32) (result i64 i64)
    (local $newPtr i32)
    (local.set $newPtr (call $alloc (local.get $len)))
    (memory.copy (local.get $newPtr) (local.get $srcPtr) (local.get $len))
    (call $packPtrLen (local.get $tag) (local.get $newPtr) (local.get $len)))

  (func $allocCopyPackArray (param $srcPtr i32) (param $count i32) (result i64 i64)
    (local $byteLen i32) (local $newPtr i32)
    (local.set $byteLen (i32.shl (local.get $count) (i32.const 4)))
    (local.set $newPtr (call $alloc (local.get $byteLen)))
    (memory.copy (local.get $newPtr) (local.get $srcPtr) (local.get $byteLen))
    (call $packPtrLen (i64.const 9) (local.get $newPtr) (local.get $count)))

  ;; echo bounces a scalar IPL value (void/bool/int/uint/float) back
  ;; unchanged: these variants carry no pointer, so no copy is needed.
  (func (export "echo") (param $lo i64) (param $hi i64) (result i64 i64)
    (local.get $lo)
    (local.get $hi))

  (func (export "echoBytes") (param $lo i64) (param $hi i64) (result i64 i64)
    (local $detail i64)
    (local.set $detail (call $unpack64 (local.get $lo) (local.get $hi)))
    (call $allocCopyPack (i64.const 5) (call $unpackPtr (local.get $detail)) (call $unpackLen (local.get $detail))))

  (func (export "echoString") (param $lo i64) (param $hi i64) (result i64 i64)
    (local $detail i64)
    (local.set $detail (call $unpack64 (local.get $lo) (local.get $hi)))
    (call $allocCopyPack (i64.const 6) (call $unpackPtr (local.get $detail)) (call $unpackLen (local.get $detail))))

  (func (export "echoJSON") (param $lo i64) (param $hi i64) (result i64 i64)
    (local $detail i64)
    (local.set $detail (call $unpack64 (local.get $lo) (local.get $hi)))
    (call $allocCopyPack (i64.const 7) (call $unpackPtr (local.get $detail)) (call $unpackLen (local.get $detail))))

  ;; echoArray copies the element slots into a fresh allocation so the
  ;; returned array survives the host freeing the original argument.
  ;; Used only with scalar-only arrays in tests, since a shallow copy of
  ;; the 16-byte slots does not follow nested bytes-like/array pointers.
  (func (export "echoArray") (param $lo i64) (param $hi i64) (result i64 i64)
    (local $detail i64) (local $count i32)
    (local $outLo i64) (local $outHi i64)
    (local.set $detail (call $unpack64 (local.get $lo) (local.get $hi)))
    (local.set $count (call $unpackLen (local.get $detail)))
    (if (i32.eqz (local.get $count))
      (then
        (local.set $outLo (i64.const 9))
        (local.set $outHi (i64.const 0)))
      (else
        (call $allocCopyPackArray (call $unpackPtr (local.get $detail)) (local.get $count))
        (local.set $outHi)
        (local.set $outLo)))
    (local.get $outLo)
    (local.get $outHi))

  (func (export "greet") (param $lo i64) (param $hi i64) (result i64 i64)
    (local $detail i64) (local $namePtr i32) (local $nameLen i32) (local $totalLen i32) (local $newPtr i32)
    (local.set $detail (call $unpack64 (local.get $lo) (local.get $hi)))
    (local.set $namePtr (call $unpackPtr (local.get $detail)))
    (local.set $nameLen (call $unpackLen (local.get $detail)))
    (local.set $totalLen (i32.add (i32.add (i32.const 6) (local.get $nameLen)) (i32.const 1)))
    (local.set $newPtr (call $alloc (local.get $totalLen)))
    (memory.copy (local.get $newPtr) (i32.const 8) (i32.const 6))
    (memory.copy (i32.add (local.get $newPtr) (i32.const 6)) (local.get $namePtr) (local.get $nameLen))
    (memory.copy
      (i32.add (i32.add (local.get $newPtr) (i32.const 6)) (local.get $nameLen))
      (i32.const 16)
      (i32.const 1))
    (call $packPtrLen (i64.const 6) (local.get $newPtr) (local.get $totalLen)))

  (func (export "testFloat") (result i64 i64)
    (call $pack64 (i64.const 4) (i64.const 4608238512912635789)))

  (func (export "testJSON") (result i64 i64)
    (call $packPtrLen (i64.const 7) (i32.const 48) (i32.const 23)))

  ;; testFunction builds its own ["Hello","World"] array out of static
  ;; data and invokes the host-origin callback via js.call, per spec.md §8
  ;; scenario 5.
  (func (export "testFunction") (param $fnLo i64) (param $fnHi i64) (result i64 i64)
    (local $argsBase i32)
    (local $slotLo i64) (local $slotHi i64)
    (local $argsLo i64) (local $argsHi i64)
    (local.set $argsBase (call $alloc (i32.const 32)))
    (call $packPtrLen (i64.const 6) (i32.const 24) (i32.const 5))
    (local.set $slotHi)
    (local.set $slotLo)
    (i64.store (local.get $argsBase) (local.get $slotLo))
    (i64.store offset=8 (local.get $argsBase) (local.get $slotHi))
    (call $packPtrLen (i64.const 6) (i32.const 32) (i32.const 5))
    (local.set $slotHi)
    (local.set $slotLo)
    (i64.store offset=16 (local.get $argsBase) (local.get $slotLo))
    (i64.store offset=24 (local.get $argsBase) (local.get $slotHi))
    (call $packPtrLen (i64.const 9) (local.get $argsBase) (i32.const 2))
    (local.set $argsHi)
    (local.set $argsLo)
    (call $jsCall (local.get $fnLo) (local.get $fnHi) (local.get $argsLo) (local.get $argsHi)))

  ;; testFunctionWithArgs just forwards the host-encoded fn and args
  ;; straight through to js.call, per spec.md §8 scenario 6.
  (func (export "testFunctionWithArgs")
    (param $fnLo i64) (param $fnHi i64) (param $argsLo i64) (param $argsHi i64) (result i64 i64)
    (call $jsCall (local.get $fnLo) (local.get $fnHi) (local.get $argsLo) (local.get $argsHi)))

  ;; badTag returns a well-formed-looking IPL value whose tag falls
  ;; outside the closed 0..9 range, exercising spec.md §8's tag-domain
  ;; property ("for every IPL value whose tag is 10..15, decode fails with
  ;; UnknownVariant") at the Instance.Call boundary.
  (func (export "badTag") (result i64 i64)
    (i64.const 10)
    (i64.const 0))

  ;; callGuestOriginFn invokes js.call with a function value whose origin
  ;; is guest (not host) and an empty args array, exercising spec.md §8's
  ;; origin-check property ("invoking the host-side call import with a
  ;; guest-origin function fails with WrongOrigin").
  (func (export "callGuestOriginFn") (result i64 i64)
    (local $fnLo i64) (local $fnHi i64) (local $argsLo i64) (local $argsHi i64)
    (call $pack64 (i64.const 8) (i64.const 0))
    (local.set $fnHi)
    (local.set $fnLo)
    (call $pack64 (i64.const 9) (i64.const 0))
    (local.set $argsHi)
    (local.set $argsLo)
    (call $jsCall (local.get $fnLo) (local.get $fnHi) (local.get $argsLo) (local.get $argsHi)))
)`
