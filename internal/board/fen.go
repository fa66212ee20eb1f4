package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	StartFEN    = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	KiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
)

var (
	// ErrInvalidFEN wraps every syntax problem in a FEN string.
	ErrInvalidFEN = errors.New("invalid FEN")
	// ErrIllegalPosition marks well-formed FEN that cannot arise in play:
	// a side without exactly one king, or a king left in check by the side
	// that just moved.
	ErrIllegalPosition = errors.New("illegal position")
)

// ParseFEN reads a position from Forsyth-Edwards Notation. The half-move
// clock and full-move number are optional and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	pos := NewEmptyPosition()
	if err := parsePlacement(pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
	case "b":
		pos.SetSideToMove(Black)
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	cr, err := ParseCastlingRights(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos.SetCastlingRights(cr)

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		if sq.RelativeRank(pos.SideToMove()) != 5 {
			return nil, fmt.Errorf("%w: en passant square %s with %s to move", ErrInvalidFEN, sq, pos.SideToMove())
		}
		origin := sq + 8
		if pos.SideToMove() == Black {
			origin = sq - 8
		}
		them := pos.SideToMove().Other()
		if !pos.IsEmpty(sq) || !pos.IsEmpty(origin) || !pos.PieceMaskOf(Pawn, them).IsSet(sq^8) {
			return nil, fmt.Errorf("%w: no %s double push to en passant square %s", ErrInvalidFEN, them, sq)
		}
		pos.SetEnPassant(sq)
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, fields[4])
		}
		pos.SetHalfMoveClock(n)
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, fields[5])
		}
		pos.SetFullMoveNumber(n)
	}

	for _, c := range [2]Color{White, Black} {
		if n := pos.PieceMaskOf(King, c).PopCount(); n != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings: %s", ErrIllegalPosition, c, n, fen)
		}
	}
	mover := pos.SideToMove()
	if pos.IsSquareAttacked(pos.KingSquare(mover.Other()), mover) {
		return nil, fmt.Errorf("%w: %s king can be captured: %s", ErrIllegalPosition, mover.Other(), fen)
	}
	return pos, nil
}

func parsePlacement(pos *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: piece %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			if piece.Type() == Pawn && (rank == 0 || rank == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			pos.Place(NewSquare(file, rank), piece.Color(), piece.Type())
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// ToFEN writes the position as Forsyth-Edwards Notation.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.sideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.castling, p.enPassant, p.halfMoveClock, p.fullMoveNumber)
	return sb.String()
}
