package board

import (
	"iter"
	"math/bits"
	"strings"
)

// Bitboard is a set of squares; bit i is square i.
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101 << iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Bitboard = 0xFF << (8 * iota)
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	NotFileA  = ^FileA
	NotFileH  = ^FileH
	NotFileAB = ^(FileA | FileB)
	NotFileGH = ^(FileG | FileH)

	// Edges is the outer ring of the board.
	Edges = FileA | FileH | Rank1 | Rank8
	// Full has every square set.
	Full Bitboard = ^Bitboard(0)
)

// FileMask and RankMask index the constants above by 0-based file and rank.
var (
	FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}
	RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}
)

// SquareBB is the set holding only sq.
func SquareBB(sq Square) Bitboard { return 1 << (sq & 63) }

func (b Bitboard) Set(sq Square) Bitboard { return b | SquareBB(sq) }
func (b Bitboard) Clear(sq Square) Bitboard { return b &^ SquareBB(sq) }
func (b Bitboard) Toggle(sq Square) Bitboard { return b ^ SquareBB(sq) }
func (b Bitboard) IsSet(sq Square) bool { return b&SquareBB(sq) != 0 }

// PopCount is the number of squares in the set.
func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// Empty reports whether no square is set.
func (b Bitboard) Empty() bool { return b == 0 }

// More reports whether any square is set.
func (b Bitboard) More() bool { return b != 0 }

// OnlyOne reports whether exactly one square is set.
func (b Bitboard) OnlyOne() bool { return b != 0 && b&(b-1) == 0 }

// LSB is the lowest set square, NoSquare for an empty set.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB is the highest set square, NoSquare for an empty set.
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLSB removes the lowest set square and returns it.
func (b *Bitboard) PopLSB() Square {
	sq := Square(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// Shifts by one step. Horizontal components drop bits that would wrap
// onto the opposite edge.

func (b Bitboard) North() Bitboard { return b << 8 }
func (b Bitboard) South() Bitboard { return b >> 8 }
func (b Bitboard) East() Bitboard { return (b & NotFileH) << 1 }
func (b Bitboard) West() Bitboard { return (b & NotFileA) >> 1 }
func (b Bitboard) NorthEast() Bitboard { return (b & NotFileH) << 9 }
func (b Bitboard) NorthWest() Bitboard { return (b & NotFileA) << 7 }
func (b Bitboard) SouthEast() Bitboard { return (b & NotFileH) >> 7 }
func (b Bitboard) SouthWest() Bitboard { return (b & NotFileA) >> 9 }

// Forward shifts one rank toward c's promotion rank.
func (b Bitboard) Forward(c Color) Bitboard {
	if c == White {
		return b << 8
	}
	return b >> 8
}

// ForEach calls f for every set square, lowest first.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// All iterates the set squares, lowest first.
func (b Bitboard) All() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for b != 0 {
			if !yield(b.PopLSB()) {
				return
			}
		}
	}
}

// Squares collects the set squares into a slice.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.PopCount())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String draws the set as an 8x8 grid, rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				sb.WriteString(" x")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
