package memo

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// table is the entry table behind one function's results. Several
// FunctionCaches handed out by a Registry hold the same *table.
//
// Entries are spread over lock stripes by fingerprint hash so unrelated
// calls never wait on each other, and flights keeps at most one target
// invocation in progress per fingerprint.
type table struct {
	id      string
	stripes []*stripe
	flights singleflight.Group
}

type stripe struct {
	mu      sync.RWMutex
	entries map[Fingerprint]TimedEntry[any]
}

type tableRow struct {
	fp    Fingerprint
	entry TimedEntry[any]
}

func newTable(numStripes int) *table {
	if numStripes <= 0 {
		panic("newTable: number of stripes must be greater than 0")
	}
	stripes := make([]*stripe, numStripes)
	for i := range stripes {
		stripes[i] = &stripe{entries: make(map[Fingerprint]TimedEntry[any])}
	}
	return &table{
		id:      uuid.New().String(),
		stripes: stripes,
	}
}

func (t *table) stripeOf(fp Fingerprint) *stripe {
	if len(t.stripes) == 1 {
		return t.stripes[0]
	}
	return t.stripes[xxhash.Sum64String(string(fp))%uint64(len(t.stripes))]
}

func (t *table) load(fp Fingerprint) (TimedEntry[any], bool) {
	s := t.stripeOf(fp)
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[fp]
	return entry, ok
}

// store replaces whatever fp held before.
func (t *table) store(fp Fingerprint, entry TimedEntry[any]) {
	s := t.stripeOf(fp)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[fp] = entry
}

func (t *table) len() int {
	n := 0
	for _, s := range t.stripes {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// snapshot copies every row, ordered by fingerprint.
func (t *table) snapshot() []tableRow {
	rows := make([]tableRow, 0, t.len())
	for _, s := range t.stripes {
		s.mu.RLock()
		for fp, entry := range s.entries {
			rows = append(rows, tableRow{fp: fp, entry: entry})
		}
		s.mu.RUnlock()
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].fp < rows[j].fp
	})
	return rows
}

// do runs fn unless a flight for fp is already running, in which case it
// waits for that flight and shares its outcome.
func (t *table) do(fp Fingerprint, fn func() (any, error)) (any, error, bool) {
	return t.flights.Do(string(fp), fn)
}
