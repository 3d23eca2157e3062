package memo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

// Registry hands out FunctionCaches for arbitrary functions.
//
// The first Register of a function creates an entry table for its FuncID;
// later Registers of the same FuncID get new FunctionCaches over that same
// table. Tables live as long as the Registry unless Reset drops them.
type Registry struct {
	id     string
	cfg    Config
	tel    *telemetry
	logger *zap.Logger

	mu    sync.Mutex
	slots map[FuncID]*table
}

// NewRegistry returns an empty Registry. Every cache it hands out uses cfg,
// including cfg.Timeout. A zero Config means results never expire.
func NewRegistry(cfg Config) *Registry {
	cfg = cfg.normalize()
	id := uuid.New().String()
	return &Registry{
		id:     id,
		cfg:    cfg,
		tel:    newTelemetry(cfg),
		logger: cfg.Logger.With(zap.String("registry_id", id)),
		slots:  make(map[FuncID]*table),
	}
}

// ID returns the instance ID of the registry.
func (r *Registry) ID() string {
	return r.id
}

// Timeout returns the timeout given to every cache this registry hands out.
func (r *Registry) Timeout() time.Duration {
	return r.cfg.Timeout
}

// Len returns the number of functions with a slot.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// Reset drops every slot. Caches handed out earlier keep their tables but no
// longer share them with caches handed out afterwards.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = make(map[FuncID]*table)
	r.logger.Debug("registry reset")
}

// slot returns the table for id, creating it on first use.
func (r *Registry) slot(id FuncID) *table {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.slots[id]
	if !ok {
		t = newTable(r.cfg.Stripes)
		r.slots[id] = t
		r.logger.Sugar().Debugf("registry slot created: funcId: %v, tableId: %v", id, t.id)
	}
	return t
}

// Register returns a new FunctionCache for fn backed by the registry's table
// for fn's identity. A Function without an ID is identified by its Target.
func Register[V any](r *Registry, fn Function[V]) (*FunctionCache[V], error) {
	if r == nil {
		return nil, ErrNilRegistry
	}
	if fn.Target == nil {
		return nil, ErrNilFunction
	}
	if fn.ID == "" {
		fn.ID = FingerprintFunc(fn.Target)
	}
	return newFunctionCache(fn, r.slot(fn.ID), r.cfg, r.tel), nil
}

// MustRegister is the panic-on-failure variant of Register.
func MustRegister[V any](r *Registry, fn Function[V]) *FunctionCache[V] {
	return helper.MustGetTypedValue[*FunctionCache[V]](func() (any, error) {
		return Register(r, fn)
	})
}
