// Package perft counts legal move paths to a fixed depth. The counts for
// well-known positions are published, which makes them the reference test
// for a move generator.
package perft

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Count returns the number of leaf nodes of the legal move tree of pos at
// the given depth. Depth 0 counts the position itself.
func Count(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for _, m := range moves.Slice() {
		next := pos.Apply(m)
		nodes += Count(&next, depth-1)
	}
	return nodes
}

// Divide returns the leaf count under each root move.
func Divide(pos *board.Position, depth int) map[board.Move]uint64 {
	out := make(map[board.Move]uint64)
	if depth <= 0 {
		return out
	}
	for m := range pos.Moves() {
		next := pos.Apply(m)
		out[m] = Count(&next, depth-1)
	}
	return out
}

// DivideParallel is Divide with the root moves spread over workers
// goroutines sharing subtree counts through t, which may be nil.
// Cancelling ctx stops scheduling new root moves and returns ctx.Err().
func DivideParallel(ctx context.Context, pos *board.Position, depth, workers int, t *Table) (map[board.Move]uint64, error) {
	out := make(map[board.Move]uint64)
	if depth <= 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for m := range pos.Moves() {
		if gctx.Err() != nil {
			break
		}
		next := pos.Apply(m)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n := CountHashed(&next, depth-1, t)
			mu.Lock()
			out[m] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DivideEntry is one line of a divide report.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// SortedDivide orders a divide result by move text, the order other tools
// print it in, so reports can be diffed.
func SortedDivide(div map[board.Move]uint64) []DivideEntry {
	moves := maps.Keys(div)
	slices.SortFunc(moves, func(a, b board.Move) int {
		return strings.Compare(a.String(), b.String())
	})
	out := make([]DivideEntry, len(moves))
	for i, m := range moves {
		out[i] = DivideEntry{Move: m, Nodes: div[m]}
	}
	return out
}

// Parallel counts like Count but spreads the root moves over workers
// goroutines. Each goroutine works on its own copy of the position.
// workers <= 0 means one per CPU. Cancelling ctx stops scheduling new root
// moves and returns ctx.Err().
func Parallel(ctx context.Context, pos *board.Position, depth, workers int) (uint64, error) {
	return ParallelHashed(ctx, pos, depth, workers, nil)
}

// ParallelHashed is Parallel with the workers sharing subtree counts
// through t. A nil t disables sharing.
func ParallelHashed(ctx context.Context, pos *board.Position, depth, workers int, t *Table) (uint64, error) {
	if depth <= 1 {
		return Count(pos, depth), nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var total atomic.Uint64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for m := range pos.Moves() {
		if gctx.Err() != nil {
			break
		}
		next := pos.Apply(m)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			total.Add(CountHashed(&next, depth-1, t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	// The group context is done once Wait returns; only the caller's
	// context tells a cancelled run from a finished one.
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// Cache stores finished counts keyed by position hash and depth.
type Cache interface {
	Get(hash uint64, depth int) (nodes uint64, ok bool, err error)
	Put(hash uint64, depth int, nodes uint64) error
}

// Cached returns the count for pos from cache when present and otherwise
// computes it with Parallel and stores the result.
func Cached(ctx context.Context, cache Cache, pos *board.Position, depth, workers int) (nodes uint64, hit bool, err error) {
	nodes, ok, err := cache.Get(pos.Hash(), depth)
	if err != nil {
		return 0, false, fmt.Errorf("perft cache lookup: %w", err)
	}
	if ok {
		return nodes, true, nil
	}
	nodes, err = Parallel(ctx, pos, depth, workers)
	if err != nil {
		return 0, false, err
	}
	if err := cache.Put(pos.Hash(), depth, nodes); err != nil {
		return nodes, false, fmt.Errorf("perft cache store: %w", err)
	}
	return nodes, false, nil
}
