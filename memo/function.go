package memo

import (
	"context"
	"fmt"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

// Target is the function a FunctionCache memoizes.
// recv is the receiver bound with WithReceiver, or nil.
type Target[V any] func(ctx context.Context, recv any, args ...any) (V, error)

// Function pairs a Target with the identity a Registry files it under.
type Function[V any] struct {
	ID     FuncID
	Target Target[V]
}

// Of wraps target, deriving its identity from the target itself.
func Of[V any](target Target[V]) Function[V] {
	return Function[V]{
		ID:     FingerprintFunc(target),
		Target: target,
	}
}

// Named wraps target under a caller-chosen identity.
func Named[V any](name string, target Target[V]) Function[V] {
	return Function[V]{
		ID:     NamedFunc(name),
		Target: target,
	}
}

// Func adapts a plain variadic function. Its identity is derived from fn,
// not from the adapter, so every Func(f) for the same f shares one slot.
func Func[V any](fn func(args ...any) (V, error)) Function[V] {
	if fn == nil {
		return Function[V]{}
	}
	return Function[V]{
		ID: FingerprintFunc(fn),
		Target: func(_ context.Context, _ any, args ...any) (V, error) {
			return fn(args...)
		},
	}
}

// Method adapts a function that runs against a receiver of type R.
// Invoking it while the bound receiver is not an R fails with ErrReceiverType.
func Method[R, V any](fn func(recv R, args ...any) (V, error)) Function[V] {
	if fn == nil {
		return Function[V]{}
	}
	return Function[V]{
		ID: FingerprintFunc(fn),
		Target: func(_ context.Context, recv any, args ...any) (V, error) {
			r, err := helper.GetTypedValueOf[R](func() (any, error) {
				return recv, nil
			})
			if err != nil {
				var zero V
				return zero, fmt.Errorf("%w: %w", ErrReceiverType, err)
			}
			return fn(r, args...)
		},
	}
}

// result boxes a value so that nil interface results still type-assert.
type result[V any] struct {
	value V
}

func (r result[V]) String() string {
	return fmt.Sprint(r.value)
}
