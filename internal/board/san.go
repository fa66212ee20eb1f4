package board

import (
	"fmt"
	"strings"
)

// SAN returns the standard algebraic notation of m, a legal move in pos,
// with a "+" or "#" suffix when it gives check or mate.
func (m Move) SAN(pos *Position) string {
	if m == NoMove {
		return "--"
	}
	var sb strings.Builder
	switch m.Flag() {
	case FlagKingCastle:
		sb.WriteString("O-O")
	case FlagQueenCastle:
		sb.WriteString("O-O-O")
	default:
		from, to := m.From(), m.To()
		pt := pos.TypeAt(from)
		if pt != Pawn {
			sb.WriteByte(upper(pt.Char()))
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(upper(m.Promotion().Char()))
		}
	}

	next := pos.Apply(m)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

func upper(c byte) byte { return c - 'a' + 'A' }

// disambiguation is the origin file, rank or square needed to tell m apart
// from other moves of the same kind to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	var rivals Bitboard
	pos.ForEachMove(func(o Move) {
		if o.To() == to && o.From() != from && pos.TypeAt(o.From()) == pt {
			rivals = rivals.Set(o.From())
		}
	})
	switch {
	case rivals == 0:
		return ""
	case rivals&FileMask[from.File()] == 0:
		return string(rune('a' + from.File()))
	case rivals&RankMask[from.Rank()] == 0:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves algebraic move text against the legal moves of pos.
// Check and annotation suffixes are ignored; "0-0" is accepted for
// castling.
func ParseSAN(s string, pos *Position) (Move, error) {
	text := strings.TrimRight(strings.TrimSpace(s), "+#!?")
	switch text {
	case "O-O", "0-0":
		return findMove(pos, s, func(m Move) bool { return m.Flag() == FlagKingCastle })
	case "O-O-O", "0-0-0":
		return findMove(pos, s, func(m Move) bool { return m.Flag() == FlagQueenCastle })
	}

	promo := NoPieceType
	if i := strings.IndexByte(text, '='); i >= 0 {
		if i+2 != len(text) {
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
		promo = pieceTypeFromChar(text[i+1] - 'A' + 'a')
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("%w: %q: bad promotion piece", ErrIllegalMove, s)
		}
		text = text[:i]
	}

	capture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	pt := Pawn
	if text != "" && text[0] >= 'A' && text[0] <= 'Z' {
		pt = pieceTypeFromChar(text[0] - 'A' + 'a')
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("%w: %q: bad piece letter", ErrIllegalMove, s)
		}
		text = text[1:]
	}
	if len(text) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	to, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}

	file, rank := -1, -1
	for _, c := range text[:len(text)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
	}

	return findMove(pos, s, func(m Move) bool {
		from := m.From()
		return m.To() == to &&
			pos.TypeAt(from) == pt &&
			!m.IsCastling() &&
			m.Promotion() == promo &&
			(!capture || m.IsCapture()) &&
			(capture || pt != Pawn || !m.IsCapture()) &&
			(file < 0 || from.File() == file) &&
			(rank < 0 || from.Rank() == rank)
	})
}

// findMove returns the one legal move matching match.
func findMove(pos *Position, s string, match func(Move) bool) (Move, error) {
	found, n := NoMove, 0
	pos.ForEachMove(func(m Move) {
		if match(m) {
			found = m
			n++
		}
	})
	switch n {
	case 0:
		return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, pos.ToFEN())
	case 1:
		return found, nil
	}
	return NoMove, fmt.Errorf("%w: %s is ambiguous in %s", ErrIllegalMove, s, pos.ToFEN())
}

// MovesToSAN converts a line of moves played from pos.
func MovesToSAN(pos *Position, moves []Move) []string {
	out := make([]string, len(moves))
	p := pos.Copy()
	for i, m := range moves {
		out[i] = m.SAN(p)
		p.MakeMove(m)
	}
	return out
}
