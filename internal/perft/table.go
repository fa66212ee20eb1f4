package perft

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Number of lock shards (power of 2 for fast modulo).
const (
	tableShardCount = 256
	tableShardMask  = tableShardCount - 1
)

// tableEntry is one subtree count. Depth 0 marks an empty slot.
type tableEntry struct {
	Key   uint64
	Nodes uint64
	Depth uint8
}

// Table is a fixed-size in-memory store of subtree counts keyed by position
// hash and depth. It is safe for concurrent use by the Parallel workers.
type Table struct {
	entries []tableEntry
	shards  [tableShardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table using about sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	const entrySize = 24
	n := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	if n < tableShardCount {
		n = tableShardCount
	}
	return &Table{
		entries: make([]tableEntry, n),
		mask:    n - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the stored count of the depth-deep subtree under hash.
func (t *Table) Probe(hash uint64, depth int) (uint64, bool) {
	t.probes.Add(1)
	idx := hash & t.mask
	mu := &t.shards[idx&tableShardMask]

	mu.RLock()
	e := t.entries[idx]
	mu.RUnlock()

	if e.Key == hash && int(e.Depth) == depth && depth > 0 {
		t.hits.Add(1)
		return e.Nodes, true
	}
	return 0, false
}

// Store records a count. A slot keeps the deeper of its old and new
// entries.
func (t *Table) Store(hash uint64, depth int, nodes uint64) {
	if depth <= 0 || depth > 255 {
		return
	}
	idx := hash & t.mask
	mu := &t.shards[idx&tableShardMask]

	mu.Lock()
	if e := &t.entries[idx]; depth >= int(e.Depth) {
		*e = tableEntry{Key: hash, Nodes: nodes, Depth: uint8(depth)}
	}
	mu.Unlock()
}

// Get implements Cache.
func (t *Table) Get(hash uint64, depth int) (uint64, bool, error) {
	n, ok := t.Probe(hash, depth)
	return n, ok, nil
}

// Put implements Cache.
func (t *Table) Put(hash uint64, depth int, nodes uint64) error {
	t.Store(hash, depth, nodes)
	return nil
}

// Clear empties the table and resets the statistics.
func (t *Table) Clear() {
	clear(t.entries)
	t.hits.Store(0)
	t.probes.Store(0)
}

// HitRate returns the fraction of probes that found an entry.
func (t *Table) HitRate() float64 {
	p := t.probes.Load()
	if p == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(p)
}

// CountHashed is Count with subtree counts shared through t. Depth 1
// subtrees are cheaper to count than to look up and are never stored.
func CountHashed(pos *board.Position, depth int, t *Table) uint64 {
	if t == nil || depth <= 1 {
		return Count(pos, depth)
	}
	if n, ok := t.Probe(pos.Hash(), depth); ok {
		return n
	}
	var nodes uint64
	for m := range pos.Moves() {
		next := pos.Apply(m)
		nodes += CountHashed(&next, depth-1, t)
	}
	t.Store(pos.Hash(), depth, nodes)
	return nodes
}
