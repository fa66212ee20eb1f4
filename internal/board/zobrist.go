package board

// Zobrist keys. A position's key is the XOR of the key of every piece on
// its square, the key of the whole castling mask, the en-passant file key
// when a target is set, and the side key when black is to move.
var (
	zobristPiece      [2][6][64]uint64
	zobristCastling   [16]uint64
	zobristEnPassant  [8]uint64
	zobristSideToMove uint64
)

// zobristSeed is fixed so keys, and stored hashes, are stable across runs.
const zobristSeed = 0x98F107A2BEEF1234

func init() {
	rng := newPRNG(zobristSeed)
	for c := range zobristPiece {
		for pt := range zobristPiece[c] {
			for sq := range zobristPiece[c][pt] {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// prng is xorshift64*. Both the zobrist keys and the magic search draw
// from it so table contents never depend on math/rand.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a number with roughly an eighth of its bits set, which
// makes a good magic candidate.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

// ComputeHash rebuilds the zobrist key from scratch. The incrementally kept
// Hash must always equal it.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := p.PieceMaskOf(pt, c); bb != 0; {
				key ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	key ^= zobristCastling[p.castling&AllCastling]
	if p.enPassant != NoSquare {
		key ^= zobristEnPassant[p.enPassant.File()]
	}
	if p.sideToMove == Black {
		key ^= zobristSideToMove
	}
	return key
}
