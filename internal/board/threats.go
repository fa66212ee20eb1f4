package board

// AttackMap returns every square attacked by side by. The defending king is
// taken off the board first, so squares behind it on a slider's line count
// as attacked and the king cannot step back along a checking ray.
func (p *Position) AttackMap(by Color) Bitboard {
	occ := p.Occupancy() &^ p.PieceMaskOf(King, by.Other())
	them := p.occupied[by]

	pawns := p.pieces[Pawn] & them
	var attacks Bitboard
	if by == White {
		attacks = pawns.NorthEast() | pawns.NorthWest()
	} else {
		attacks = pawns.SouthEast() | pawns.SouthWest()
	}
	for b := p.pieces[Knight] & them; b != 0; {
		attacks |= knightAttacks[b.PopLSB()]
	}
	for b := (p.pieces[Bishop] | p.pieces[Queen]) & them; b != 0; {
		attacks |= BishopAttacks(b.PopLSB(), occ)
	}
	for b := (p.pieces[Rook] | p.pieces[Queen]) & them; b != 0; {
		attacks |= RookAttacks(b.PopLSB(), occ)
	}
	if k := p.PieceMaskOf(King, by); k != 0 {
		attacks |= kingAttacks[k.LSB()]
	}
	return attacks
}

// AttackersTo returns the pieces of side by that attack sq given occ.
func (p *Position) AttackersTo(sq Square, by Color, occ Bitboard) Bitboard {
	bq := p.pieces[Bishop] | p.pieces[Queen]
	rq := p.pieces[Rook] | p.pieces[Queen]
	return (pawnAttacks[by.Other()][sq]&p.pieces[Pawn] |
		knightAttacks[sq]&p.pieces[Knight] |
		kingAttacks[sq]&p.pieces[King] |
		BishopAttacks(sq, occ)&bq |
		RookAttacks(sq, occ)&rq) & p.occupied[by]
}

// IsSquareAttacked reports whether side by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersTo(sq, by, p.Occupancy()) != 0
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.sideToMove
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return 0
	}
	return p.AttackersTo(ksq, us.Other(), p.Occupancy())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}

// PinMasks returns the rays, from just past the king up to and including
// the pinning slider, along which the side to move has exactly one piece.
// A pinned piece may only move within its own ray.
func (p *Position) PinMasks() (diagonal, orthogonal Bitboard) {
	us := p.sideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return 0, 0
	}
	ours := p.occupied[us]
	theirs := p.occupied[them]

	// Probing with only the attacker's pieces as blockers sees through ours.
	snipers := BishopAttacks(ksq, theirs) & (p.pieces[Bishop] | p.pieces[Queen]) & theirs
	for snipers != 0 {
		ray := rayBB[ksq][snipers.PopLSB()]
		if (ray & ours).OnlyOne() {
			diagonal |= ray
		}
	}
	snipers = RookAttacks(ksq, theirs) & (p.pieces[Rook] | p.pieces[Queen]) & theirs
	for snipers != 0 {
		ray := rayBB[ksq][snipers.PopLSB()]
		if (ray & ours).OnlyOne() {
			orthogonal |= ray
		}
	}
	return diagonal, orthogonal
}
