package board

// MakeMove plays m, which must be legal in p, and updates every field of
// the position including the hash. Legality is not checked again.
func (p *Position) MakeMove(m Move) {
	us := p.sideToMove
	them := us.Other()
	from, to, flag := m.From(), m.To(), m.Flag()
	pt := p.TypeAt(from)

	if m.IsCapture() {
		capSq := to
		if flag == FlagEnPassant {
			// The captured pawn sits behind the target square.
			capSq = to ^ 8
		}
		p.Remove(capSq, them, p.TypeAt(capSq))
	}

	p.move(from, to, us, pt)

	if pt == Pawn || m.IsCapture() {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}

	if lost := castlingMask[from] | castlingMask[to]; p.castling&lost != 0 {
		p.SetCastlingRights(p.castling &^ lost)
	}

	if flag == FlagDoublePush {
		p.SetEnPassant(to ^ 8)
	} else if p.enPassant != NoSquare {
		p.SetEnPassant(NoSquare)
	}

	switch flag {
	case FlagKingCastle, FlagQueenCastle:
		cs := &castles[us][flag-FlagKingCastle]
		p.move(cs.rookFrom, cs.rookTo, us, Rook)
	}

	if m.IsPromotion() {
		p.Remove(to, us, Pawn)
		p.Place(to, us, m.Promotion())
	}

	if us == Black {
		p.fullMoveNumber++
	}
	p.sideToMove = them
	p.hash ^= zobristSideToMove
}

// Apply returns the position after m, leaving p unchanged.
func (p *Position) Apply(m Move) Position {
	next := *p
	next.MakeMove(m)
	return next
}
