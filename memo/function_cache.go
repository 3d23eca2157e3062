package memo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

// FunctionCache memoizes one target function.
//
// Each distinct argument list gets at most one stored result. A stored result
// is returned until it expires or a forced call replaces it. Failed calls are
// never stored. FunctionCache is safe for concurrent use.
type FunctionCache[V any] struct {
	id      string
	fn      Function[V]
	table   *table
	timeout time.Duration
	clock   Clock
	logger  *zap.Logger
	tel     *telemetry

	mu       sync.RWMutex
	receiver any

	// forceNext is consumed by exactly one invocation.
	forceNext atomic.Bool
}

// New returns a FunctionCache bound to fn with a fresh, private entry table.
func New[V any](fn Function[V], cfg Config) (*FunctionCache[V], error) {
	if fn.Target == nil {
		return nil, ErrNilFunction
	}
	if fn.ID == "" {
		fn.ID = FingerprintFunc(fn.Target)
	}
	cfg = cfg.normalize()
	return newFunctionCache(fn, newTable(cfg.Stripes), cfg, newTelemetry(cfg)), nil
}

func newFunctionCache[V any](fn Function[V], t *table, cfg Config, tel *telemetry) *FunctionCache[V] {
	id := uuid.New().String()
	return &FunctionCache[V]{
		id:      id,
		fn:      fn,
		table:   t,
		timeout: cfg.Timeout,
		clock:   cfg.Clock,
		logger: cfg.Logger.With(
			zap.String("cache_id", id),
			zap.String("table_id", t.id),
			zap.String("func_id", string(fn.ID)),
		),
		tel: tel,
	}
}

// ID returns the instance ID of this cache, unique per New or Register call.
func (c *FunctionCache[V]) ID() string {
	return c.id
}

// FuncID returns the identity of the memoized function.
func (c *FunctionCache[V]) FuncID() FuncID {
	return c.fn.ID
}

// Timeout returns how long results stay fresh, or NoTimeout.
func (c *FunctionCache[V]) Timeout() time.Duration {
	return c.timeout
}

// Len returns the number of stored results, fresh or stale.
func (c *FunctionCache[V]) Len() int {
	return c.table.len()
}

// WithReceiver sets the receiver the target runs against. The last call wins.
func (c *FunctionCache[V]) WithReceiver(recv any) *FunctionCache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = recv
	return c
}

// Receiver returns the bound receiver, or nil.
func (c *FunctionCache[V]) Receiver() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.receiver
}

// ForceNext makes the next invocation recompute even if a fresh result is stored.
// Only one invocation is forced per ForceNext.
func (c *FunctionCache[V]) ForceNext() *FunctionCache[V] {
	c.forceNext.Store(true)
	return c
}

// ForcePending reports whether the next invocation will be forced.
func (c *FunctionCache[V]) ForcePending() bool {
	return c.forceNext.Load()
}

// Call invokes the cache with args, without forcing.
func (c *FunctionCache[V]) Call(ctx context.Context, args ...any) (V, error) {
	return c.Invoke(ctx, args, false)
}

// Invoke returns the stored result for args if there is a fresh one, and
// otherwise runs the target and stores what it returns.
//
// force, or a pending ForceNext, skips the lookup. A pending ForceNext is
// cleared by this call either way. Errors from the target are returned as is
// and leave the table untouched.
func (c *FunctionCache[V]) Invoke(ctx context.Context, args []any, force bool) (V, error) {
	if c.forceNext.Swap(false) {
		force = true
	}

	fp := FingerprintArgs(args...)
	if force {
		c.tel.recordForced(ctx, c.fn.ID)
		c.logger.Debug("memo forced", zap.String("fingerprint", string(fp)))
		return c.compute(ctx, fp, args, true)
	}

	if v, ok := c.lookup(fp); ok {
		c.tel.recordHit(ctx, c.fn.ID)
		c.logger.Debug("memo hit", zap.String("fingerprint", string(fp)))
		return v, nil
	}

	c.tel.recordMiss(ctx, c.fn.ID)
	c.logger.Debug("memo miss", zap.String("fingerprint", string(fp)))
	return c.compute(ctx, fp, args, false)
}

// lookup returns the fresh value stored under fp. A value of another type,
// left by a different function filed under the same identity, is a miss.
func (c *FunctionCache[V]) lookup(fp Fingerprint) (V, bool) {
	entry, ok := c.table.load(fp)
	if !ok || entry.IsExpired(c.timeout, c.clock()) {
		var zero V
		return zero, false
	}
	res, ok := helper.GetTypedValueOf2[result[V]](func() (any, bool) {
		return entry.Get(), true
	})
	return res.value, ok
}

func (c *FunctionCache[V]) compute(ctx context.Context, fp Fingerprint, args []any, force bool) (V, error) {
	recv := c.Receiver()
	raw, err, shared := c.table.do(fp, func() (any, error) {
		// a flight that finished after our lookup may already have stored fp
		if !force {
			if v, ok := c.lookup(fp); ok {
				return result[V]{value: v}, nil
			}
		}
		return c.run(ctx, fp, recv, args)
	})
	if err != nil {
		var zero V
		return zero, err
	}

	res, ok := raw.(result[V])
	if !ok {
		// joined a flight of another function filed under the same identity
		res, err = c.run(ctx, fp, recv, args)
		if err != nil {
			var zero V
			return zero, err
		}
	} else if shared {
		c.logger.Debug("memo shared flight", zap.String("fingerprint", string(fp)))
	}
	return res.value, nil
}

// run invokes the target once and stores a successful result.
func (c *FunctionCache[V]) run(ctx context.Context, fp Fingerprint, recv any, args []any) (result[V], error) {
	spanCtx, span := c.tel.startCompute(ctx, c.fn.ID, fp)
	start := time.Now()
	v, err := c.fn.Target(spanCtx, recv, args...)
	c.tel.endCompute(spanCtx, span, c.fn.ID, time.Since(start), err)
	if err != nil {
		c.logger.Debug("memo target failed", zap.String("fingerprint", string(fp)), zap.Error(err))
		return result[V]{}, err
	}

	res := result[V]{value: v}
	c.table.store(fp, NewTimedEntry[any](res, c.clock()))
	c.logger.Debug("memo stored", zap.String("fingerprint", string(fp)))
	return res, nil
}

// String lists the memoized function and every stored call.
func (c *FunctionCache[V]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{FunctionCache of %s, previous calls:{\n", c.fn.ID)
	for _, row := range c.table.snapshot() {
		fmt.Fprintf(&b, "\t(%s) => %v,\n", row.fp, row.entry.Get())
	}
	b.WriteString("}}")
	return b.String()
}
