package purefn_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/memo_ive_go/memo"
	"github.com/on-the-ground/memo_ive_go/purefn"

	"github.com/stretchr/testify/assert"
)

func TestTableizeI1O1(t *testing.T) {
	count := 0
	fn := purefn.TableizeI1O1(func(i int) int {
		count++
		return i * 2
	}, memo.Config{})

	assert.Equal(t, 4, fn(2))
	assert.Equal(t, 4, fn(2)) // cached
	assert.Equal(t, 1, count)
}

func TestTableizeI2O1(t *testing.T) {
	count := 0
	fn := purefn.TableizeI2O1(func(a, b int) int {
		count++
		return a + b
	}, memo.Config{})

	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 1, count)
}

func TestTableizeI3O1(t *testing.T) {
	count := 0
	fn := purefn.TableizeI3O1(func(a, b, c int) int {
		count++
		return a * b * c
	}, memo.Config{})

	assert.Equal(t, 24, fn(2, 3, 4))
	assert.Equal(t, 24, fn(2, 3, 4))
	assert.Equal(t, 1, count)
}

func TestTableizeI4O1(t *testing.T) {
	count := 0
	fn := purefn.TableizeI4O1(func(a, b, c, d int) int {
		count++
		return a + b + c + d
	}, memo.Config{})

	assert.Equal(t, 10, fn(1, 2, 3, 4))
	assert.Equal(t, 10, fn(1, 2, 3, 4))
	assert.Equal(t, 1, count)
}

func TestTableizeI1O2(t *testing.T) {
	count := 0
	fn := purefn.TableizeI1O2(func(i int) (int, string) {
		count++
		return i, "val"
	}, memo.Config{})

	a, b := fn(10)
	assert.Equal(t, 10, a)
	assert.Equal(t, "val", b)
	a2, b2 := fn(10)
	assert.Equal(t, 10, a2)
	assert.Equal(t, "val", b2)
	assert.Equal(t, 1, count)
}

func TestTableizeI2O2(t *testing.T) {
	count := 0
	fn := purefn.TableizeI2O2(func(a, b int) (int, string) {
		count++
		return a * b, "mul"
	}, memo.Config{})

	x, y := fn(3, 4)
	assert.Equal(t, 12, x)
	assert.Equal(t, "mul", y)
	_, _ = fn(3, 4)
	assert.Equal(t, 1, count)
}

func TestTableizeI3O2(t *testing.T) {
	count := 0
	fn := purefn.TableizeI3O2(func(a, b, c int) (int, string) {
		count++
		return a + b + c, "sum"
	}, memo.Config{})

	x, y := fn(1, 2, 3)
	assert.Equal(t, 6, x)
	assert.Equal(t, "sum", y)
	_, _ = fn(1, 2, 3)
	assert.Equal(t, 1, count)
}

func TestTableizeI4O2(t *testing.T) {
	count := 0
	fn := purefn.TableizeI4O2(func(a, b, c, d int) (int, string) {
		count++
		return a * b * c * d, "product"
	}, memo.Config{})

	x, y := fn(1, 2, 3, 4)
	assert.Equal(t, 24, x)
	assert.Equal(t, "product", y)
	_, _ = fn(1, 2, 3, 4)
	assert.Equal(t, 1, count)
}

type NonComparable struct {
	Field []int // slices are not comparable
}

func (n NonComparable) String() string {
	return fmt.Sprintf("NonComparable%v", n.Field)
}

func TestTableizeWithStringerFallback(t *testing.T) {
	count := 0
	fn := purefn.TableizeI1O1(func(n NonComparable) int {
		count++
		return len(n.Field)
	}, memo.Config{})

	val := fn(NonComparable{Field: []int{1, 2, 3}})
	val2 := fn(NonComparable{Field: []int{1, 2, 3}})

	assert.Equal(t, 3, val)
	assert.Equal(t, 3, val2)
	assert.Equal(t, 1, count)
}

type NoStringer struct {
	Field []int
}

func TestTableizeWithoutStringerUsesRenderedValue(t *testing.T) {
	count := 0
	fn := purefn.TableizeI1O1(func(n NoStringer) int {
		count++
		return len(n.Field)
	}, memo.Config{})

	assert.Equal(t, 1, fn(NoStringer{Field: []int{1}}))
	assert.Equal(t, 1, fn(NoStringer{Field: []int{1}}))
	assert.Equal(t, 2, fn(NoStringer{Field: []int{1, 2}}))
	assert.Equal(t, 2, count)
}

func TestTableizeExpiresWithTimeout(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	count := 0
	fn := purefn.TableizeI1O1(func(i int) int {
		count++
		return i + 1
	}, memo.NewConfig(time.Second).WithClock(clock))

	fn(1)
	fn(1)
	assert.Equal(t, 1, count)

	now = now.Add(2 * time.Second)
	fn(1)
	assert.Equal(t, 2, count)
}

func TestTableizeConcurrentCallers(t *testing.T) {
	var count atomic.Int32
	fn := purefn.TableizeI2O1(func(a, b int) int {
		count.Add(1)
		return a * b
	}, memo.Config{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				assert.Equal(t, i*i, fn(i, i))
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, count.Load(), int32(8*20))
	assert.Equal(t, 16, fn(4, 4))
}

func TestTableizeNilInterfaceArgument(t *testing.T) {
	count := 0
	describe := purefn.TableizeI1O1(func(err error) string {
		count++
		if err == nil {
			return "ok"
		}
		return "failed: " + err.Error()
	}, memo.Config{})

	assert.NotPanics(t, func() {
		assert.Equal(t, "ok", describe(nil))
		assert.Equal(t, "ok", describe(nil))
	})
	assert.Equal(t, "failed: boom", describe(fmt.Errorf("boom")))
	assert.Equal(t, 2, count)

	pick := purefn.TableizeI2O2(func(label string, v fmt.Stringer) (string, bool) {
		if v == nil {
			return label, false
		}
		return label + "=" + v.String(), true
	}, memo.Config{})

	assert.NotPanics(t, func() {
		s, ok := pick("x", nil)
		assert.Equal(t, "x", s)
		assert.False(t, ok)
	})
}
