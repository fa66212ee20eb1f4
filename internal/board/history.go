package board

// HistoryCapacity is the number of keys a History keeps. Positions further
// back than a hundred plies cannot repeat: the fifty-move rule ends the
// game first.
const HistoryCapacity = 100

// History records the keys of earlier positions since the last
// irreversible move.
type History struct {
	keys  [HistoryCapacity]uint64
	count int
}

// Push appends key. A full history drops its oldest key.
func (h *History) Push(key uint64) {
	if h.count == HistoryCapacity {
		copy(h.keys[:], h.keys[1:])
		h.count--
	}
	h.keys[h.count] = key
	h.count++
}

func (h *History) Reset()   { h.count = 0 }
func (h *History) Len() int { return h.count }

// Repetitions counts the recorded keys equal to key.
func (h *History) Repetitions(key uint64) int {
	n := 0
	for _, k := range h.keys[:h.count] {
		if k == key {
			n++
		}
	}
	return n
}

// Game is a position together with the history needed for repetition
// draws.
type Game struct {
	Position Position
	History  History
}

// NewGame starts a game from pos.
func NewGame(pos *Position) *Game {
	return &Game{Position: *pos}
}

// MakeMove records the current key and plays m. A pawn move or capture
// makes every earlier position unreachable, so the history is cleared.
func (g *Game) MakeMove(m Move) {
	g.History.Push(g.Position.Hash())
	g.Position.MakeMove(m)
	if g.Position.HalfMoveClock() == 0 {
		g.History.Reset()
	}
}

// IsRepetition reports whether the current position occurred before.
func (g *Game) IsRepetition() bool {
	return g.History.Repetitions(g.Position.Hash()) > 0
}

// IsThreefold reports whether the current position is on the board for at
// least the third time.
func (g *Game) IsThreefold() bool {
	return g.History.Repetitions(g.Position.Hash()) >= 2
}

// IsDraw covers the fifty-move rule, threefold repetition, insufficient
// material and stalemate.
func (g *Game) IsDraw() bool {
	p := &g.Position
	return p.IsFiftyMoveDraw() || g.IsThreefold() || p.IsInsufficientMaterial() || p.IsStalemate()
}
