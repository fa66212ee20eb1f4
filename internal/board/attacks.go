package board

// Leaper and geometry tables. All of them are filled by init and only read
// afterwards, so any number of goroutines may use them.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [side][square]

	// rayBB[a][b] holds the squares walked from a to b along a shared
	// line, excluding a and including b. Unaligned pairs are empty.
	rayBB  [64][64]Bitboard
	lineBB [64][64]Bitboard // the whole edge-to-edge line through a and b
)

type direction struct{ df, dr int }

var (
	rookDirections   = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirections = [4]direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func init() {
	initLeapers()
	initRays()
	initMagics()
}

func initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		b := SquareBB(sq)

		knightAttacks[sq] = (b&NotFileH)<<17 | (b&NotFileA)<<15 |
			(b&NotFileGH)<<10 | (b&NotFileAB)<<6 |
			(b&NotFileA)>>17 | (b&NotFileH)>>15 |
			(b&NotFileAB)>>10 | (b&NotFileGH)>>6

		kingAttacks[sq] = b.North() | b.South() | b.East() | b.West() |
			b.NorthEast() | b.NorthWest() | b.SouthEast() | b.SouthWest()

		pawnAttacks[White][sq] = b.NorthEast() | b.NorthWest()
		pawnAttacks[Black][sq] = b.SouthEast() | b.SouthWest()
	}
}

func initRays() {
	dirs := append(rookDirections[:], bishopDirections[:]...)
	for from := A1; from <= H8; from++ {
		for _, d := range dirs {
			var walked Bitboard
			f, r := from.File()+d.df, from.Rank()+d.dr
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				to := NewSquare(f, r)
				walked |= SquareBB(to)
				rayBB[from][to] = walked
				f += d.df
				r += d.dr
			}
		}
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if rayBB[a][b] == 0 {
				continue
			}
			// Extend the ray from a through b in both directions to the edges.
			line := SquareBB(a)
			for _, d := range dirs {
				full := slideAttacks(a, 0, []direction{d})
				if full.IsSet(b) {
					line |= full | slideAttacks(a, 0, []direction{{-d.df, -d.dr}})
					break
				}
			}
			lineBB[a][b] = line
		}
	}
}

// slideAttacks walks each direction from sq until the edge or the first
// occupied square, which is included.
func slideAttacks(sq Square, occ Bitboard, dirs []direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occ.IsSet(s) {
				break
			}
			f += d.df
			r += d.dr
		}
	}
	return attacks
}

// KnightAttacks returns the knight targets from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king targets from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the diagonal capture targets of a c pawn on sq.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// BishopAttacks returns the diagonal slider targets from sq given occ.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return bishopTable[m.index(occ)]
}

// RookAttacks returns the orthogonal slider targets from sq given occ.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	m := &rookMagics[sq]
	return rookTable[m.index(occ)]
}

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// AttacksFor returns the squares a pt of side c on sq attacks given occ.
// Only pawns depend on c.
func AttacksFor(pt PieceType, c Color, sq Square, occ Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// Ray returns the squares from (exclusive) to (inclusive) when both
// share a rank, file or diagonal, and the empty set otherwise.
func Ray(from, to Square) Bitboard { return rayBB[from][to] }

// Between returns the squares strictly between a and b on a shared line.
func Between(a, b Square) Bitboard { return rayBB[a][b] &^ SquareBB(b) }

// Line returns the full board line through a and b, or the empty set.
func Line(a, b Square) Bitboard { return lineBB[a][b] }
