package board

// Color is the side a piece belongs to, or the side to move.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// PieceType is a piece kind. The ordinals index per-kind bitboards,
// zobrist keys and PhaseWeight, so their order must not change.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// PieceTypes lists the real kinds in ordinal order.
var PieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// PhaseWeight is each kind's contribution to the game phase.
var PhaseWeight = [7]int{0, 1, 1, 2, 4, 0, 0}

// MaxPhase is the phase of the full starting material.
const MaxPhase = 24

const pieceLetters = "pnbrqk"

// Char is the lowercase letter used in FEN and move text.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return '.'
	}
	return pieceLetters[pt]
}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// pieceTypeFromChar maps a lowercase letter back to its kind.
func pieceTypeFromChar(c byte) PieceType {
	for i := 0; i < len(pieceLetters); i++ {
		if pieceLetters[i] == c {
			return PieceType(i)
		}
	}
	return NoPieceType
}

// Piece is a kind and a side packed as kind + 6*side.
type Piece uint8

// NoPiece stands for an empty square.
const NoPiece Piece = 12

// NewPiece packs pt and c. Out-of-range input gives NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + 6*Piece(c)
}

func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String is the FEN letter, uppercase for white.
func (p Piece) String() string {
	if p >= NoPiece {
		return "."
	}
	return string("PNBRQKpnbrqk"[p])
}

// PieceFromChar parses a FEN letter. Unknown letters give NoPiece.
func PieceFromChar(c byte) Piece {
	if c >= 'A' && c <= 'Z' {
		return NewPiece(pieceTypeFromChar(c+'a'-'A'), White)
	}
	return NewPiece(pieceTypeFromChar(c), Black)
}
