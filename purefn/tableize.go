package purefn

import (
	"context"

	"github.com/on-the-ground/memo_ive_go/memo"
)

func TableizeI1O1[I1, O1 any](
	pureFn func(I1) O1,
	cfg memo.Config,
) func(I1) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(arg[I1](args[0]))
		},
		cfg,
	)
	return func(i1 I1) O1 {
		return tableized(i1)
	}
}

func TableizeI2O1[I1, I2, O1 any](
	pureFn func(I1, I2) O1,
	cfg memo.Config,
) func(I1, I2) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(arg[I1](args[0]), arg[I2](args[1]))
		},
		cfg,
	)
	return func(i1 I1, i2 I2) O1 {
		return tableized(i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3, O1 any](
	pureFn func(I1, I2, I3) O1,
	cfg memo.Config,
) func(I1, I2, I3) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(arg[I1](args[0]), arg[I2](args[1]), arg[I3](args[2]))
		},
		cfg,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return tableized(i1, i2, i3)
	}
}

func TableizeI4O1[I1, I2, I3, I4, O1 any](
	pureFn func(I1, I2, I3, I4) O1,
	cfg memo.Config,
) func(I1, I2, I3, I4) O1 {
	tableized := tableize(
		func(args ...any) O1 {
			return pureFn(arg[I1](args[0]), arg[I2](args[1]), arg[I3](args[2]), arg[I4](args[3]))
		},
		cfg,
	)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		return tableized(i1, i2, i3, i4)
	}
}

// arg converts a memoized argument back to its parameter type. A nil
// interface argument has no dynamic type and comes back as the zero T.
func arg[T any](v any) T {
	t, _ := v.(T)
	return t
}

// tableize binds pureFn to a fresh memo.FunctionCache. The target cannot
// fail, so an error here is a broken invariant and panics.
func tableize[O any](
	pureFn func(...any) O,
	cfg memo.Config,
) func(...any) O {
	cache, err := memo.New(
		memo.Func(func(args ...any) (O, error) {
			return pureFn(args...), nil
		}),
		cfg,
	)
	if err != nil {
		panic(err)
	}
	return func(args ...any) O {
		v, err := cache.Call(context.Background(), args...)
		if err != nil {
			panic(err)
		}
		return v
	}
}
