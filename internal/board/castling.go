package board

import "fmt"

// CastlingRights is a 4-bit mask of the castles still available.
type CastlingRights uint8

const (
	WhiteKingSideCastle CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                           // Q
	BlackKingSideCastle                            // k
	BlackQueenSideCastle                           // q

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// Has reports whether every right in r is present.
func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r == r }

// String is the FEN castling field.
func (cr CastlingRights) String() string {
	if cr&AllCastling == 0 {
		return "-"
	}
	buf := make([]byte, 0, 4)
	for i, c := range []byte("KQkq") {
		if cr&(1<<i) != 0 {
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// ParseCastlingRights reads a FEN castling field such as "KQk" or "-".
func ParseCastlingRights(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastling, nil
	}
	if s == "" {
		return NoCastling, fmt.Errorf("empty castling field")
	}
	var cr CastlingRights
	for i := 0; i < len(s); i++ {
		var r CastlingRights
		switch s[i] {
		case 'K':
			r = WhiteKingSideCastle
		case 'Q':
			r = WhiteQueenSideCastle
		case 'k':
			r = BlackKingSideCastle
		case 'q':
			r = BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("invalid castling character %q", s[i])
		}
		cr |= r
	}
	return cr, nil
}

// castle describes one of the four castling moves.
type castle struct {
	right            CastlingRights
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	// empty must hold no pieces; safe must not be attacked.
	empty, safe Bitboard
	flag        MoveFlag
}

// castles is indexed by [side][0 king side, 1 queen side].
var castles = [2][2]castle{
	{
		{WhiteKingSideCastle, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1), FlagKingCastle},
		{WhiteQueenSideCastle, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1), FlagQueenCastle},
	},
	{
		{BlackKingSideCastle, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8), FlagKingCastle},
		{BlackQueenSideCastle, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8), FlagQueenCastle},
	},
}

// castlingMask gives the rights lost when a move leaves or lands on a square.
var castlingMask = func() (m [64]CastlingRights) {
	m[A1] = WhiteQueenSideCastle
	m[H1] = WhiteKingSideCastle
	m[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	m[A8] = BlackQueenSideCastle
	m[H8] = BlackKingSideCastle
	m[E8] = BlackKingSideCastle | BlackQueenSideCastle
	return m
}()
