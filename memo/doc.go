// Package memo provides a memoization engine for pure or idempotent functions.
//
// A FunctionCache remembers the result of each distinct call of one target
// function, keyed by a Fingerprint of the call's arguments. Results can expire
// after a configured timeout, and a single call can be forced to recompute.
//
// Two binding modes are supported:
//
//   - Bound mode: New ties a FunctionCache to one function and a fresh table.
//   - Registry mode: a Registry hands out FunctionCaches for any number of
//     functions. Every cache returned for the same function identity shares
//     one entry table, so results survive across repeated registrations.
//
// Fingerprints are deliberately cheap. Arguments are rendered to text, so two
// different values with the same text (3 and "3") are the same call, and
// commas inside arguments are not escaped, so ("a,b", "c") and ("a", "b,c")
// are the same call as well. Function
// identity comes from the function's code pointer, so two closures built from
// the same literal share a slot unless they are registered under Named IDs.
//
// Example:
//
//	addTwo := memo.Func(func(args ...any) (int, error) {
//	    return args[0].(int) + 2, nil
//	})
//	c, _ := memo.New(addTwo, memo.NewConfig(500*time.Millisecond))
//	v, _ := c.Call(ctx, 2) // computes
//	v, _ = c.Call(ctx, 2)  // cached
//
// WARNING: memoizing an impure function (time, I/O, randomness) returns stale
// results by construction.
package memo
