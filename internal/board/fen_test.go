package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		KiwipeteFEN,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		pos := mustParse(t, fen)
		if got := pos.ToFEN(); got != fen {
			t.Errorf("ToFEN() = %q, want %q", got, fen)
		}
		if err := pos.Validate(); err != nil {
			t.Errorf("%s: %v", fen, err)
		}
	}
}

func TestParseFENDefaults(t *testing.T) {
	pos := mustParse(t, "8/8/4k3/8/8/3K4/8/8 b - -")
	if pos.HalfMoveClock() != 0 || pos.FullMoveNumber() != 1 {
		t.Errorf("clock %d move %d, want 0 and 1", pos.HalfMoveClock(), pos.FullMoveNumber())
	}
	if pos.SideToMove() != Black {
		t.Errorf("side %v, want black", pos.SideToMove())
	}
}

func TestStartPosition(t *testing.T) {
	pos := StartPosition()
	if pos.Phase() != MaxPhase {
		t.Errorf("phase %d, want %d", pos.Phase(), MaxPhase)
	}
	if pos.CastlingRights() != AllCastling {
		t.Errorf("castling %v", pos.CastlingRights())
	}
	if pos.PieceAt(E1) != NewPiece(King, White) || pos.PieceAt(D8) != NewPiece(Queen, Black) {
		t.Errorf("bad placement\n%v", pos)
	}
	if pos.Occupancy().PopCount() != 32 {
		t.Errorf("%d pieces", pos.Occupancy().PopCount())
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"empty", "", ErrInvalidFEN},
		{"short", "8/8/8/8/8/8/8/8 w", ErrInvalidFEN},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1", ErrInvalidFEN},
		{"long rank", "9/8/8/8/8/8/8/8 w - - 0 1", ErrInvalidFEN},
		{"bad piece", "4k3/8/8/8/8/8/8/4K2X w - - 0 1", ErrInvalidFEN},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", ErrInvalidFEN},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w KX - 0 1", ErrInvalidFEN},
		{"bad ep", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1", ErrInvalidFEN},
		{"ep without pawn", "4k3/8/8/3P4/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
		{"ep target occupied", "4k3/8/4n3/3Pp3/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
		{"ep origin occupied", "4k3/4n3/8/3Pp3/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
		{"ep own pawn", "4k3/8/8/8/3pp3/8/8/4K3 b - e3 0 1", ErrInvalidFEN},
		{"ep black without pawn", "4k3/8/8/8/3p4/8/8/4K3 b - e3 0 1", ErrInvalidFEN},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1", ErrInvalidFEN},
		{"pawn on back rank", "4k2P/8/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidFEN},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", ErrIllegalPosition},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", ErrIllegalPosition},
		{"mover can take king", "4k3/8/8/8/8/8/8/4RK2 w - - 0 1", ErrIllegalPosition},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSideToMoveInCheckIsAccepted(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/8/8/8/8/4RK2 b - - 0 1")
	if !pos.InCheck() {
		t.Error("expected black to be in check")
	}
}
