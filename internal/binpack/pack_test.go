package binpack

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/klauspost/compress/zstd"
)

var packFENs = []string{
	board.StartFEN,
	board.KiwipeteFEN,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R b KQ - 1 8",
}

func placement(pos *board.Position) string {
	return strings.Fields(pos.ToFEN())[0]
}

func mustParse(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPlanesRoundTrip(t *testing.T) {
	for _, fen := range packFENs {
		pos := mustParse(t, fen)
		got, err := EncodePlanes(pos).Decode(pos.SideToMove())
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		if placement(got) != placement(pos) {
			t.Errorf("%s: decoded %s", fen, placement(got))
		}
		if got.SideToMove() != pos.SideToMove() {
			t.Errorf("%s: side %v", fen, got.SideToMove())
		}
		if got.CastlingRights() != board.NoCastling || got.EnPassant() != board.NoSquare {
			t.Errorf("%s: decoded state %v %v", fen, got.CastlingRights(), got.EnPassant())
		}
	}
}

func TestPlanesPieceCodes(t *testing.T) {
	// White king on e1 is code 6 (110), black pawn on e7 is code 1 (001).
	pos := mustParse(t, "4k3/4p3/8/8/8/8/8/4K3 w - - 0 1")
	p := EncodePlanes(pos)
	if p[0] != board.SquareBB(board.E7) {
		t.Errorf("plane 0 = %v", p[0])
	}
	kings := board.SquareBB(board.E1) | board.SquareBB(board.E8)
	if p[1] != kings || p[2] != kings {
		t.Errorf("planes 1, 2 = %v, %v", p[1], p[2])
	}
	if p[3] != board.SquareBB(board.E7)|board.SquareBB(board.E8) {
		t.Errorf("plane 3 = %v", p[3])
	}
}

func TestDecodeRejectsBadPlanes(t *testing.T) {
	good := EncodePlanes(board.StartPosition())
	tests := []struct {
		name   string
		mutate func(*Planes)
	}{
		{"CodeSeven", func(p *Planes) { *p = good; p[0] = p[0].Set(board.E1) }},
		{"StrayColor", func(p *Planes) { *p = good; p[3] = p[3].Set(board.E4) }},
		{"NoKings", func(p *Planes) { *p = Planes{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Planes
			tt.mutate(&p)
			if _, err := p.Decode(board.White); err == nil {
				t.Error("decoded without error")
			}
		})
	}
}

func TestBoardPack(t *testing.T) {
	pos := mustParse(t, packFENs[4])
	b := NewBoardPack(pos, 0.75)
	b.ApplyResult(board.Black)

	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != BoardPackSize {
		t.Fatalf("encoded %d bytes", len(data))
	}
	var got BoardPack
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if got != b {
		t.Errorf("got %+v, want %+v", got, b)
	}
	if got.Result != -1 {
		t.Errorf("result %d", got.Result)
	}
	// Black to move with 0.75 is 0.25 for white.
	if s := got.WhiteScore(); s < 0.249 || s > 0.251 {
		t.Errorf("white score %v", s)
	}
	back, err := got.Position()
	if err != nil {
		t.Fatal(err)
	}
	if placement(back) != placement(pos) {
		t.Errorf("position %s", placement(back))
	}
}

func TestScoreScaling(t *testing.T) {
	tests := []struct {
		in   float32
		want uint16
	}{
		{-1, 0},
		{0, 0},
		{0.5, 32767},
		{1, 65535},
		{2, 65535},
	}
	for _, tt := range tests {
		if got := scaleScore(tt.in); got != tt.want {
			t.Errorf("scaleScore(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBoardPackUnmarshalErrors(t *testing.T) {
	b := NewBoardPack(board.StartPosition(), 0.5)
	data, _ := b.MarshalBinary()

	var got BoardPack
	if err := got.UnmarshalBinary(data[:10]); err == nil {
		t.Error("short record accepted")
	}
	bad := bytes.Clone(data)
	bad[32] = 7
	if err := got.UnmarshalBinary(bad); err == nil {
		t.Error("bad side accepted")
	}
	bad = bytes.Clone(data)
	bad[35] = 5
	if err := got.UnmarshalBinary(bad); err == nil {
		t.Error("bad result accepted")
	}
}

func TestPolicyPack(t *testing.T) {
	pos := board.StartPosition()
	p := NewPolicyPack(pos)
	moves := pos.GenerateLegalMoves().Slice()
	for i, m := range moves {
		if err := p.PushMove(m, uint16(100*i)); err != nil {
			t.Fatal(err)
		}
	}

	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != PolicyPackSize {
		t.Fatalf("encoded %d bytes", len(data))
	}
	var got PolicyPack
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if got.Len() != len(moves) {
		t.Fatalf("len %d, want %d", got.Len(), len(moves))
	}
	for i, pm := range got.Moves() {
		if pm.Move != moves[i] || pm.Visits != uint16(100*i) {
			t.Errorf("move %d = %v/%d", i, pm.Move, pm.Visits)
		}
	}
}

func TestPolicyPackFull(t *testing.T) {
	p := NewPolicyPack(board.StartPosition())
	m := board.NewMove(board.E2, board.E4, board.FlagDoublePush)
	for i := 0; i < MaxPolicyMoves; i++ {
		if err := p.PushMove(m, 1); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := p.PushMove(m, 1); !errors.Is(err, ErrPolicyFull) {
		t.Errorf("err = %v, want ErrPolicyFull", err)
	}
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	var want []BoardPack
	for i, fen := range packFENs {
		b := NewBoardPack(mustParse(t, fen), float32(i)/4)
		b.ApplyResult(board.White)
		want = append(want, b)
		if err := w.WriteBoard(&b); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.Count() != len(packFENs) {
		t.Errorf("count %d", w.Count())
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for i := range want {
		var got BoardPack
		if err := r.ReadBoard(&got); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got != want[i] {
			t.Errorf("record %d = %+v", i, got)
		}
	}
	var extra BoardPack
	if err := r.ReadBoard(&extra); err != io.EOF {
		t.Errorf("end of stream: %v, want io.EOF", err)
	}
}

func TestStreamPolicy(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	pos := mustParse(t, board.KiwipeteFEN)
	p := NewPolicyPack(pos)
	for m := range pos.Captures() {
		if err := p.PushMove(m, 3); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WritePolicy(p); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var got PolicyPack
	if err := r.ReadPolicy(&got); err != nil {
		t.Fatal(err)
	}
	if got.Len() != p.Len() || got.Len() == 0 {
		t.Errorf("len %d, want %d", got.Len(), p.Len())
	}
}

func TestStreamTruncated(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write(make([]byte, BoardPackSize/2))
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var b BoardPack
	if err := r.ReadBoard(&b); err != io.ErrUnexpectedEOF {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}
