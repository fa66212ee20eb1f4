package perft

import (
	"context"
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func mustParse(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestSuite(t *testing.T) {
	for _, c := range Suite {
		t.Run(c.Name, func(t *testing.T) {
			pos := mustParse(t, c.FEN)
			for depth := 1; depth <= c.MaxDepth(testing.Short()); depth++ {
				want := c.Nodes[depth-1]
				got, err := Parallel(context.Background(), pos, depth, 0)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("depth %d: got %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestCountMatchesParallel(t *testing.T) {
	pos := mustParse(t, board.KiwipeteFEN)
	serial := Count(pos, 3)
	par, err := Parallel(context.Background(), pos, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if serial != par {
		t.Errorf("Count = %d, Parallel = %d", serial, par)
	}
}

func TestDivideSumsToCount(t *testing.T) {
	pos := mustParse(t, board.KiwipeteFEN)
	div := Divide(pos, 3)
	if len(div) != 48 {
		t.Fatalf("%d root moves, want 48", len(div))
	}
	var sum uint64
	entries := SortedDivide(div)
	for i, e := range entries {
		sum += e.Nodes
		if i > 0 && entries[i-1].Move.String() >= e.Move.String() {
			t.Errorf("divide not sorted at %v", e.Move)
		}
	}
	if sum != 97862 {
		t.Errorf("divide sums to %d, want 97862", sum)
	}
}

func TestDivideParallelMatchesDivide(t *testing.T) {
	pos := mustParse(t, board.KiwipeteFEN)
	want := Divide(pos, 3)
	for _, tt := range []*Table{nil, NewTable(1)} {
		got, err := DivideParallel(context.Background(), pos, 3, 4, tt)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("%d root moves, want %d", len(got), len(want))
		}
		for m, n := range want {
			if got[m] != n {
				t.Errorf("%v: %d, want %d", m, got[m], n)
			}
		}
	}
}

func TestDivideParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DivideParallel(ctx, board.StartPosition(), 4, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parallel(ctx, board.StartPosition(), 4, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type memCache struct {
	entries map[[2]uint64]uint64
	puts    int
}

func (m *memCache) Get(hash uint64, depth int) (uint64, bool, error) {
	n, ok := m.entries[[2]uint64{hash, uint64(depth)}]
	return n, ok, nil
}

func (m *memCache) Put(hash uint64, depth int, nodes uint64) error {
	m.entries[[2]uint64{hash, uint64(depth)}] = nodes
	m.puts++
	return nil
}

func TestCached(t *testing.T) {
	cache := &memCache{entries: map[[2]uint64]uint64{}}
	pos := board.StartPosition()

	n, hit, err := Cached(context.Background(), cache, pos, 3, 0)
	if err != nil || hit || n != 8902 {
		t.Fatalf("first run: n=%d hit=%v err=%v", n, hit, err)
	}
	n, hit, err = Cached(context.Background(), cache, pos, 3, 0)
	if err != nil || !hit || n != 8902 {
		t.Fatalf("second run: n=%d hit=%v err=%v", n, hit, err)
	}
	if cache.puts != 1 {
		t.Errorf("%d puts, want 1", cache.puts)
	}
}
