package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank: the a8 rook checks h8, g7 and h7 are blocked.
	pos := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !pos.InCheck() {
		t.Fatalf("expected check\n%v", pos)
	}
	if n := pos.GenerateLegalMoves().Len(); n != 0 {
		t.Errorf("got %d legal moves, want 0", n)
	}
	if !pos.IsCheckmate() {
		t.Error("IsCheckmate = false")
	}
	if pos.IsStalemate() {
		t.Error("IsStalemate = true")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can take the unprotected rook.
	pos := mustParse(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if pos.IsCheckmate() {
		t.Fatalf("IsCheckmate = true\n%v", pos)
	}
	want := NewMove(H8, G8, FlagCapture)
	if !pos.GenerateLegalMoves().Contains(want) {
		t.Errorf("missing %v", want)
	}
}

func TestStalemate(t *testing.T) {
	pos := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !pos.IsStalemate() {
		t.Errorf("IsStalemate = false\n%v", pos)
	}
	if pos.IsCheckmate() {
		t.Error("IsCheckmate = true")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Rook e1 and bishop h5 both check the e8 king; the d7 knight could
	// block the file on e5 but must not move.
	pos := mustParse(t, "4k3/3n4/8/7B/8/8/8/4R1K1 b - - 0 1")
	if n := pos.Checkers().PopCount(); n != 2 {
		t.Fatalf("checkers = %d, want 2", n)
	}
	ksq := pos.KingSquare(Black)
	for m := range pos.Moves() {
		if m.From() != ksq {
			t.Errorf("non-king move %v under double check", m)
		}
	}
}

func TestCheckEvasionsBlockOrCapture(t *testing.T) {
	// The a5 queen checks e1 along the diagonal; the c1 bishop can block
	// on d2 and castling is out.
	pos := mustParse(t, "4k3/8/8/q7/8/8/8/2B1K2R w K - 0 1")
	checker := pos.Checkers()
	if checker.LSB() != A5 {
		t.Fatalf("checker = %v, want a5", checker.LSB())
	}
	ksq := pos.KingSquare(White)
	allowed := Ray(ksq, A5)
	for m := range pos.Moves() {
		if m.From() == ksq {
			continue
		}
		if m.IsCastling() {
			t.Errorf("castling %v out of check", m)
		}
		if !allowed.IsSet(m.To()) {
			t.Errorf("%v neither blocks nor captures the checker", m)
		}
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/4k3/8/8/3K4/8/8 w - - 0 1", true},
		{"8/8/4k3/8/8/3KN3/8/8 w - - 0 1", true},
		{"8/8/3bk3/8/8/3KN3/8/8 w - - 0 1", true},
		{"8/8/4k3/8/8/2NKN3/8/8 w - - 0 1", false},
		{"8/8/4k3/8/8/3KB3/3B4/8 w - - 0 1", false},
		{"8/8/4k3/8/8/3K4/3P4/8 w - - 0 1", false},
		{"8/8/4k3/8/8/3K1R2/8/8 w - - 0 1", false},
	}
	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			if got := mustParse(t, tc.fen).IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	pos := mustParse(t, "8/8/4k3/8/8/3K1R2/8/8 w - - 99 80")
	if pos.IsFiftyMoveDraw() {
		t.Fatal("draw one ply early")
	}
	next := pos.Apply(NewMove(F3, F1, FlagQuiet))
	if !next.IsFiftyMoveDraw() {
		t.Errorf("clock %d, want a fifty-move draw", next.HalfMoveClock())
	}
}
