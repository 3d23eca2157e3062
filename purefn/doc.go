// Package purefn provides high-level memoization utilities for pure functions.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// The centerpiece is the Tableize family of functions, which memoize pure function
// calls by their input values. Each one wraps a bound memo.FunctionCache, so
// results can expire through memo.Config.Timeout like any other memoized call.
//
// Features:
//   - TableizeI1O1 to TableizeI4O2: Typed, generic memoizers for common arities.
//   - Inputs are keyed by memo.FingerprintArgs: Stringers by their String(),
//     everything else by its fmt rendering, so non-comparable inputs work too.
//   - Safe for concurrent use; concurrent calls with equal inputs compute once.
//
// Recursive definitions (see tableize_bench_test.go) work as long as a call
// never recurses into itself with the same inputs, which would wait forever.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package purefn
