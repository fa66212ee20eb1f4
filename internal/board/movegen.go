package board

import "iter"

// ForEachMove calls visit once for every legal move of the side to move.
// The position is not modified.
func (p *Position) ForEachMove(visit func(Move)) {
	p.generate(visit, false)
}

// ForEachCapture calls visit for every legal capture, including en passant
// and capturing promotions. Quiet promotions and castling are left out.
func (p *Position) ForEachCapture(visit func(Move)) {
	p.generate(visit, true)
}

// GenerateLegalMoves collects every legal move.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generate(ml.Add, false)
	return ml
}

// GenerateCaptures collects every legal capture.
func (p *Position) GenerateCaptures() *MoveList {
	ml := &MoveList{}
	p.generate(ml.Add, true)
	return ml
}

// Moves iterates the legal moves. The sequence is single use.
func (p *Position) Moves() iter.Seq[Move] {
	return seqOf(p.GenerateLegalMoves())
}

// Captures iterates the legal captures.
func (p *Position) Captures() iter.Seq[Move] {
	return seqOf(p.GenerateCaptures())
}

func seqOf(ml *MoveList) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, m := range ml.Slice() {
			if !yield(m) {
				return
			}
		}
	}
}

func (p *Position) generate(visit func(Move), capturesOnly bool) {
	us := p.sideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return
	}
	ours := p.occupied[us]
	theirs := p.occupied[them]
	occ := ours | theirs

	attacked := p.AttackMap(them)
	checkers := p.AttackersTo(ksq, them, occ)

	kingTargets := kingAttacks[ksq] &^ ours &^ attacked
	emit(visit, ksq, kingTargets&theirs, FlagCapture)
	if !capturesOnly {
		emit(visit, ksq, kingTargets&^occ, FlagQuiet)
	}

	// Under double check only the king may move.
	var push, capture Bitboard
	switch checkers.PopCount() {
	case 0:
		push = ^occ
		capture = theirs
		if !capturesOnly {
			p.generateCastling(visit, us, occ, attacked)
		}
	case 1:
		push = Between(ksq, checkers.LSB())
		capture = checkers
	default:
		return
	}
	if capturesOnly {
		push = 0
	}

	diag, orth := p.PinMasks()

	for b := p.pieces[Knight] & ours &^ (diag | orth); b != 0; {
		from := b.PopLSB()
		t := knightAttacks[from]
		emit(visit, from, t&capture, FlagCapture)
		emit(visit, from, t&push, FlagQuiet)
	}

	// A slider pinned on the other axis cannot move along this one at all.
	for b := (p.pieces[Bishop] | p.pieces[Queen]) & ours &^ orth; b != 0; {
		from := b.PopLSB()
		t := BishopAttacks(from, occ)
		if diag.IsSet(from) {
			t &= diag
		}
		emit(visit, from, t&capture, FlagCapture)
		emit(visit, from, t&push, FlagQuiet)
	}
	for b := (p.pieces[Rook] | p.pieces[Queen]) & ours &^ diag; b != 0; {
		from := b.PopLSB()
		t := RookAttacks(from, occ)
		if orth.IsSet(from) {
			t &= orth
		}
		emit(visit, from, t&capture, FlagCapture)
		emit(visit, from, t&push, FlagQuiet)
	}

	p.generatePawnMoves(visit, us, occ, push, capture, diag, orth)
}

func (p *Position) generatePawnMoves(visit func(Move), us Color, occ, push, capture, diag, orth Bitboard) {
	promoRank, doubleRank := Rank8, Rank4
	if us == Black {
		promoRank, doubleRank = Rank1, Rank5
	}

	for b := p.PieceMaskOf(Pawn, us); b != 0; {
		from := b.PopLSB()
		pushMask, captureMask := push, capture
		if orth.IsSet(from) {
			pushMask &= orth
			captureMask = 0
		}
		if diag.IsSet(from) {
			pushMask = 0
			captureMask &= diag
		}

		// The double push is checked against the empty single-push square,
		// not the push mask: in check only the far square may block.
		single := SquareBB(from).Forward(us) &^ occ
		if t := single & pushMask; t != 0 {
			if t&promoRank != 0 {
				emitPromotions(visit, from, t.LSB(), FlagPromoKnight)
			} else {
				visit(NewMove(from, t.LSB(), FlagQuiet))
			}
		}
		if t := single.Forward(us) & doubleRank &^ occ & pushMask; t != 0 {
			visit(NewMove(from, t.LSB(), FlagDoublePush))
		}

		for t := pawnAttacks[us][from] & captureMask; t != 0; {
			to := t.PopLSB()
			if SquareBB(to)&promoRank != 0 {
				emitPromotions(visit, from, to, FlagPromoCaptureKnight)
			} else {
				visit(NewMove(from, to, FlagCapture))
			}
		}

		if p.enPassant != NoSquare && pawnAttacks[us][from].IsSet(p.enPassant) {
			m := NewMove(from, p.enPassant, FlagEnPassant)
			if p.enPassantIsLegal(m) {
				visit(m)
			}
		}
	}
}

// enPassantIsLegal plays m on a copy and tests the mover's king. Removing
// two pawns from one rank can expose the king horizontally, which pin
// masks do not catch.
func (p *Position) enPassantIsLegal(m Move) bool {
	us := p.sideToMove
	next := *p
	next.MakeMove(m)
	return !next.IsSquareAttacked(next.KingSquare(us), us.Other())
}

func (p *Position) generateCastling(visit func(Move), us Color, occ, attacked Bitboard) {
	rooks := p.PieceMaskOf(Rook, us)
	for i := range castles[us] {
		cs := &castles[us][i]
		if p.castling&cs.right == 0 || !rooks.IsSet(cs.rookFrom) || p.KingSquare(us) != cs.kingFrom {
			continue
		}
		if occ&cs.empty == 0 && attacked&cs.safe == 0 {
			visit(NewMove(cs.kingFrom, cs.kingTo, cs.flag))
		}
	}
}

func emit(visit func(Move), from Square, targets Bitboard, flag MoveFlag) {
	for targets != 0 {
		visit(NewMove(from, targets.PopLSB(), flag))
	}
}

// emitPromotions emits the knight, bishop, rook and queen variants of base.
func emitPromotions(visit func(Move), from, to Square, base MoveFlag) {
	for f := base; f <= base+3; f++ {
		visit(NewMove(from, to, f))
	}
}

// HasLegalMoves reports whether the side to move can move at all.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
