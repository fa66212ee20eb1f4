package board

import (
	"math/rand/v2"
	"testing"
)

func TestSliderAttacksMatchRayWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 20000; i++ {
		// Sparse and dense boards both matter.
		occ := Bitboard(rng.Uint64() & rng.Uint64())
		if i%2 == 1 {
			occ = Bitboard(rng.Uint64() | rng.Uint64())
		}
		sq := Square(rng.IntN(64))
		if got, want := BishopAttacks(sq, occ), slideAttacks(sq, occ, bishopDirections[:]); got != want {
			t.Fatalf("bishop %v occ %016x:\n%v\nwant\n%v", sq, uint64(occ), got, want)
		}
		if got, want := RookAttacks(sq, occ), slideAttacks(sq, occ, rookDirections[:]); got != want {
			t.Fatalf("rook %v occ %016x:\n%v\nwant\n%v", sq, uint64(occ), got, want)
		}
	}
}

func TestMagicTablesAreDeterministic(t *testing.T) {
	var again [64]Magic
	var table [5248]Bitboard
	findMagics(again[:], table[:], bishopDirections[:], newPRNG(magicSeed))
	if again != bishopMagics {
		t.Error("bishop magics differ between runs")
	}
}

func TestLeaperAttacks(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want []Square
	}{
		{"knight a1", KnightAttacks(A1), []Square{B3, C2}},
		{"knight h8", KnightAttacks(H8), []Square{F7, G6}},
		{"knight d4", KnightAttacks(D4), []Square{B3, B5, C2, C6, E2, E6, F3, F5}},
		{"king a1", KingAttacks(A1), []Square{A2, B1, B2}},
		{"king e4", KingAttacks(E4), []Square{D3, D4, D5, E3, E5, F3, F4, F5}},
		{"white pawn a2", PawnAttacks(A2, White), []Square{B3}},
		{"white pawn h2", PawnAttacks(H2, White), []Square{G3}},
		{"black pawn e7", PawnAttacks(E7, Black), []Square{D6, F6}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var want Bitboard
			for _, sq := range tc.want {
				want |= SquareBB(sq)
			}
			if tc.got != want {
				t.Errorf("got %v, want %v", tc.got.Squares(), tc.want)
			}
		})
	}
}

func TestRay(t *testing.T) {
	tests := []struct {
		from, to Square
		want     []Square
	}{
		{E1, E4, []Square{E2, E3, E4}},
		{E4, E1, []Square{E3, E2, E1}},
		{A1, H8, []Square{B2, C3, D4, E5, F6, G7, H8}},
		{H1, A1, []Square{G1, F1, E1, D1, C1, B1, A1}},
		{C1, G5, []Square{D2, E3, F4, G5}},
		{A1, B3, nil},
		{E4, E4, nil},
	}
	for _, tc := range tests {
		var want Bitboard
		for _, sq := range tc.want {
			want |= SquareBB(sq)
		}
		if got := Ray(tc.from, tc.to); got != want {
			t.Errorf("Ray(%v, %v) = %v, want %v", tc.from, tc.to, got.Squares(), tc.want)
		}
		if got := Between(tc.from, tc.to); got != want&^SquareBB(tc.to) {
			t.Errorf("Between(%v, %v) = %v", tc.from, tc.to, got.Squares())
		}
	}
	if got := Line(C3, E5); got != Ray(A1, H8)|SquareBB(A1) {
		t.Errorf("Line(c3, e5) = %v", got.Squares())
	}
}
