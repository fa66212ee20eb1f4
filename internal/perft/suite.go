package perft

import "github.com/hailam/chesscore/internal/board"

// Case is a position with its published leaf counts.
type Case struct {
	Name  string
	FEN   string
	Nodes []uint64 // Nodes[i] is the count at depth i+1
	// Deep is the first depth too slow for a quick run; 0 if none.
	Deep int
}

// Suite holds the standard verification positions.
var Suite = []Case{
	{
		Name:  "start",
		FEN:   board.StartFEN,
		Nodes: []uint64{20, 400, 8902, 197281, 4865609, 119060324},
		Deep:  6,
	},
	{
		Name:  "kiwipete",
		FEN:   board.KiwipeteFEN,
		Nodes: []uint64{48, 2039, 97862, 4085603, 193690690},
		Deep:  5,
	},
	{
		Name:  "position3",
		FEN:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		Nodes: []uint64{14, 191, 2812, 43238, 674624, 11030083},
		Deep:  6,
	},
	{
		Name:  "position4",
		FEN:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		Nodes: []uint64{6, 264, 9467, 422333, 15833292},
		Deep:  5,
	},
	{
		Name:  "position4-mirrored",
		FEN:   "r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1",
		Nodes: []uint64{6, 264, 9467, 422333},
	},
	{
		Name:  "position5",
		FEN:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		Nodes: []uint64{44, 1486, 62379, 2103487, 89941194},
		Deep:  5,
	},
	{
		Name:  "position6",
		FEN:   "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		Nodes: []uint64{46, 2079, 89890, 3894594},
		Deep:  4,
	},
}

// MaxDepth returns the deepest depth to run for c. Quick runs stop before
// c.Deep.
func (c Case) MaxDepth(quick bool) int {
	if quick && c.Deep > 0 {
		return c.Deep - 1
	}
	return len(c.Nodes)
}
