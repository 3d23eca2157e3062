package memo

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// Unrepresentable is the text every argument without a stable rendering
// collapses to. All such arguments look alike to the cache.
const Unrepresentable = "<unrepresentable>"

// Fingerprint identifies a call by the rendered text of its arguments.
//
// Equal fingerprints are necessary, not sufficient, evidence of equal calls:
// 3 and "3" render the same and therefore hit the same entry. Rendered
// arguments are joined with commas and not escaped, so ("a,b", "c") and
// ("a", "b,c") hit the same entry too.
type Fingerprint string

// FingerprintArgs derives the Fingerprint of an argument list.
// The argument count, the argument order and each argument's text all take part.
func FingerprintArgs(args ...any) Fingerprint {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(args)))
	b.WriteByte(':')
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(renderArg(arg))
	}
	return Fingerprint(b.String())
}

// renderArg lets Stringers and errors speak for themselves and sends
// everything else through fmt. A panicking String or Error method yields
// the placeholder.
func renderArg(arg any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = Unrepresentable
		}
	}()

	switch v := arg.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	// code and channel addresses say nothing about the value
	switch reflect.ValueOf(arg).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Unrepresentable
	}
	return fmt.Sprint(arg)
}

// FuncID identifies a target function inside a Registry.
type FuncID string

// FingerprintFunc derives a FuncID from a function's code pointer.
//
// Every reference to the same function yields the same ID. Closures created
// from one function literal share their code and therefore their ID, and so
// do method values of one method bound to different receivers; register those
// under NamedFunc IDs when they must not share results.
// FingerprintFunc returns "" for nil or non-function values.
func FingerprintFunc(fn any) FuncID {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}

	pc := v.Pointer()
	name := "anonymous"
	if f := runtime.FuncForPC(pc); f != nil {
		name = f.Name()
	}
	return FuncID(fmt.Sprintf("func:%s@%#x", name, pc))
}

// NamedFunc returns a caller-chosen FuncID. Named IDs never collide with
// derived ones.
func NamedFunc(name string) FuncID {
	if name == "" {
		return ""
	}
	return FuncID("name:" + name)
}
