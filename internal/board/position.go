package board

import (
	"errors"
	"fmt"
	"strings"
)

// Position is the complete state of a game at one moment. It holds no
// pointers, so assigning a Position copies it.
//
// Piece placement changes only through Place and Remove, which keep the
// kind masks, side masks, phase and hash in step.
type Position struct {
	pieces   [6]Bitboard // per kind, both sides
	occupied [2]Bitboard // per side

	sideToMove     Color
	castling       CastlingRights
	enPassant      Square
	halfMoveClock  int
	fullMoveNumber int

	phase int
	hash  uint64
}

// NewEmptyPosition returns a board with no pieces, white to move.
func NewEmptyPosition() *Position {
	p := &Position{enPassant: NoSquare, fullMoveNumber: 1}
	p.hash = p.ComputeHash()
	return p
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Place puts a pt of side c on the empty square sq.
func (p *Position) Place(sq Square, c Color, pt PieceType) {
	b := SquareBB(sq)
	p.pieces[pt] |= b
	p.occupied[c] |= b
	p.phase += PhaseWeight[pt]
	p.hash ^= zobristPiece[c][pt][sq]
}

// Remove takes the pt of side c off sq. The piece must be there.
func (p *Position) Remove(sq Square, c Color, pt PieceType) {
	b := SquareBB(sq)
	p.pieces[pt] &^= b
	p.occupied[c] &^= b
	p.phase -= PhaseWeight[pt]
	p.hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) move(from, to Square, c Color, pt PieceType) {
	p.Remove(from, c, pt)
	p.Place(to, c, pt)
}

// TypeAt returns the kind on sq, NoPieceType when empty.
func (p *Position) TypeAt(sq Square) PieceType {
	b := SquareBB(sq)
	if (p.occupied[White]|p.occupied[Black])&b == 0 {
		return NoPieceType
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.pieces[pt]&b != 0 {
			return pt
		}
	}
	return NoPieceType
}

// ColorAt returns the side owning sq, NoColor when empty.
func (p *Position) ColorAt(sq Square) Color {
	switch b := SquareBB(sq); {
	case p.occupied[White]&b != 0:
		return White
	case p.occupied[Black]&b != 0:
		return Black
	}
	return NoColor
}

// PieceAt returns the piece on sq, NoPiece when empty.
func (p *Position) PieceAt(sq Square) Piece {
	return NewPiece(p.TypeAt(sq), p.ColorAt(sq))
}

func (p *Position) IsEmpty(sq Square) bool {
	return (p.occupied[White]|p.occupied[Black])&SquareBB(sq) == 0
}

func (p *Position) Occupancy() Bitboard { return p.occupied[White] | p.occupied[Black] }
func (p *Position) OccupancyOf(c Color) Bitboard { return p.occupied[c] }
func (p *Position) PieceMask(pt PieceType) Bitboard { return p.pieces[pt] }
func (p *Position) PieceMaskOf(pt PieceType, c Color) Bitboard { return p.pieces[pt] & p.occupied[c] }

// KingSquare is NoSquare if c has no king.
func (p *Position) KingSquare(c Color) Square {
	return (p.pieces[King] & p.occupied[c]).LSB()
}

func (p *Position) SideToMove() Color { return p.sideToMove }
func (p *Position) CastlingRights() CastlingRights { return p.castling }
func (p *Position) EnPassant() Square { return p.enPassant }
func (p *Position) HalfMoveClock() int { return p.halfMoveClock }
func (p *Position) FullMoveNumber() int { return p.fullMoveNumber }

// Phase sums PhaseWeight over the pieces on the board; MaxPhase at the start.
func (p *Position) Phase() int { return p.phase }

// Hash is the zobrist key of the position.
func (p *Position) Hash() uint64 { return p.hash }

func (p *Position) SetSideToMove(c Color) {
	if c != p.sideToMove {
		p.hash ^= zobristSideToMove
		p.sideToMove = c
	}
}

func (p *Position) SetCastlingRights(cr CastlingRights) {
	cr &= AllCastling
	p.hash ^= zobristCastling[p.castling] ^ zobristCastling[cr]
	p.castling = cr
}

// SetEnPassant sets the en-passant target; NoSquare clears it.
func (p *Position) SetEnPassant(sq Square) {
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}
	p.enPassant = sq
	if sq != NoSquare {
		p.hash ^= zobristEnPassant[sq.File()]
	}
}

func (p *Position) SetHalfMoveClock(n int) { p.halfMoveClock = n }
func (p *Position) SetFullMoveNumber(n int) { p.fullMoveNumber = n }

// IsInsufficientMaterial reports positions where neither side can mate:
// no pawns, rooks or queens, and at most one minor piece per side.
func (p *Position) IsInsufficientMaterial() bool {
	// Two minors already weigh 2; anything heavier has mating material.
	if p.phase > 2 {
		return false
	}
	if p.pieces[Pawn]|p.pieces[Rook]|p.pieces[Queen] != 0 {
		return false
	}
	minors := p.pieces[Knight] | p.pieces[Bishop]
	return (minors&p.occupied[White]).PopCount() < 2 && (minors&p.occupied[Black]).PopCount() < 2
}

// IsFiftyMoveDraw reports whether a hundred plies passed without a pawn
// move or capture.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfMoveClock >= 100
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var errs []error
	for _, c := range [2]Color{White, Black} {
		if n := p.PieceMaskOf(King, c).PopCount(); n != 1 {
			errs = append(errs, fmt.Errorf("%s has %d kings", c, n))
		}
	}
	if p.occupied[White]&p.occupied[Black] != 0 {
		errs = append(errs, fmt.Errorf("squares owned by both sides: %v", (p.occupied[White] & p.occupied[Black]).Squares()))
	}
	var union Bitboard
	for pt, b := range p.pieces {
		if union&b != 0 {
			errs = append(errs, fmt.Errorf("%s mask overlaps another kind", PieceType(pt)))
		}
		union |= b
	}
	if union != p.Occupancy() {
		errs = append(errs, errors.New("kind masks disagree with side masks"))
	}
	if p.pieces[Pawn]&(Rank1|Rank8) != 0 {
		errs = append(errs, errors.New("pawn on a back rank"))
	}
	if want := p.ComputeHash(); p.hash != want {
		errs = append(errs, fmt.Errorf("hash %016x, want %016x", p.hash, want))
	}
	return errors.Join(errs...)
}

// String draws the board with white at the bottom, followed by the state
// fields. It is meant for logs and test failures.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	fmt.Fprintf(&sb, "side %s  castling %s  ep %s  clock %d  move %d  phase %d\n",
		p.sideToMove, p.castling, p.enPassant, p.halfMoveClock, p.fullMoveNumber, p.phase)
	fmt.Fprintf(&sb, "hash %016x\n", p.hash)
	return sb.String()
}
