package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when move text does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// MoveFlag classifies a move. Bit 2 marks captures and bit 3 promotions;
// the low two bits of a promotion select the piece, knight through queen.
type MoveFlag uint8

const (
	FlagQuiet       MoveFlag = 0
	FlagDoublePush  MoveFlag = 1
	FlagKingCastle  MoveFlag = 2
	FlagQueenCastle MoveFlag = 3
	FlagCapture     MoveFlag = 4
	FlagEnPassant   MoveFlag = 5
	// 6 and 7 are unused.

	FlagPromoKnight MoveFlag = 8
	FlagPromoBishop MoveFlag = 9
	FlagPromoRook   MoveFlag = 10
	FlagPromoQueen  MoveFlag = 11

	FlagPromoCaptureKnight MoveFlag = 12
	FlagPromoCaptureBishop MoveFlag = 13
	FlagPromoCaptureRook   MoveFlag = 14
	FlagPromoCaptureQueen  MoveFlag = 15
)

const (
	flagCaptureBit MoveFlag = 4
	flagPromoBit   MoveFlag = 8
)

// Move packs a move into 16 bits:
//
//	bits 0-5   from square
//	bits 6-9   flag
//	bits 10-15 to square
type Move uint16

// NoMove is the zero move. It is never generated since from and to differ.
const NoMove Move = 0

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(flag)<<6 | Move(to)<<10
}

func (m Move) From() Square { return Square(m & 0x3F) }
func (m Move) To() Square { return Square(m >> 10) }
func (m Move) Flag() MoveFlag { return MoveFlag(m>>6) & 0xF }

func (m Move) IsCapture() bool { return m.Flag()&flagCaptureBit != 0 }
func (m Move) IsPromotion() bool { return m.Flag()&flagPromoBit != 0 }
func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }
func (m Move) IsDoublePush() bool { return m.Flag() == FlagDoublePush }

func (m Move) IsCastling() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// Promotion is the piece a pawn becomes, NoPieceType for other moves.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return Knight + PieceType(m.Flag()&3)
}

// String is the coordinate move text: "e2e4", "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove resolves coordinate move text against the legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = pieceTypeFromChar(s[4])
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("%w: %q: bad promotion piece", ErrIllegalMove, s)
		}
	}

	found := NoMove
	pos.ForEachMove(func(m Move) {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			found = m
		}
	})
	if found == NoMove {
		return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, pos.ToFEN())
	}
	return found, nil
}

// MaxMoves bounds the legal moves of any reachable position.
const MaxMoves = 256

// MoveList is a fixed-capacity move buffer.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int { return ml.count }
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }
func (ml *MoveList) Clear() { ml.count = 0 }
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }

func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves[:ml.count] {
		if x == m {
			return true
		}
	}
	return false
}
