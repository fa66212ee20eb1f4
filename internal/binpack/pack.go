// Package binpack stores positions in fixed-size binary records for
// training data: a board pack with a score and game result, and a policy
// pack with searched moves and their visit counts.
package binpack

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hailam/chesscore/internal/board"
)

// Planes is the 4-bitboard board encoding. Planes 0-2 hold the bits of a
// 3-bit piece code on each square; plane 3 marks black pieces. The code is
// the piece kind ordinal plus one, so code 0 is an empty square.
type Planes [4]board.Bitboard

// EncodePlanes packs the placement of pos.
func EncodePlanes(pos *board.Position) Planes {
	var p Planes
	for occ := pos.Occupancy(); occ != 0; {
		sq := occ.PopLSB()
		code := uint8(pos.TypeAt(sq)) + 1
		for bit := 0; bit < 3; bit++ {
			if code&(1<<bit) != 0 {
				p[bit] = p[bit].Set(sq)
			}
		}
		if pos.ColorAt(sq) == board.Black {
			p[3] = p[3].Set(sq)
		}
	}
	return p
}

// Decode rebuilds a position with side to move stm. Castling rights, the
// en-passant target and the clocks are not part of a pack and start empty.
func (p Planes) Decode(stm board.Color) (*board.Position, error) {
	pos := board.NewEmptyPosition()
	for occ := p[0] | p[1] | p[2]; occ != 0; {
		sq := occ.PopLSB()
		var code uint8
		for bit := 0; bit < 3; bit++ {
			if p[bit].IsSet(sq) {
				code |= 1 << bit
			}
		}
		if code > uint8(board.King)+1 {
			return nil, fmt.Errorf("binpack: bad piece code %d on %v", code, sq)
		}
		c := board.White
		if p[3].IsSet(sq) {
			c = board.Black
		}
		pos.Place(sq, c, board.PieceType(code-1))
	}
	if stray := p[3] &^ (p[0] | p[1] | p[2]); stray != 0 {
		return nil, fmt.Errorf("binpack: color bit on empty squares %v", stray.Squares())
	}
	pos.SetSideToMove(stm)
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("binpack: %w", err)
	}
	return pos, nil
}

// BoardPack is a position with a search score and the final game result.
type BoardPack struct {
	Planes     Planes
	SideToMove board.Color
	// Score is the side-to-move expectation in [0, 1] scaled to 0..65535.
	Score uint16
	// Result is +1 for a white win, -1 for a black win and 0 otherwise.
	Result int8
}

// BoardPackSize is the encoded length of a BoardPack.
const BoardPackSize = 4*8 + 1 + 2 + 1

// NewBoardPack packs pos with score, the side-to-move win expectation.
func NewBoardPack(pos *board.Position, score float32) BoardPack {
	return BoardPack{
		Planes:     EncodePlanes(pos),
		SideToMove: pos.SideToMove(),
		Score:      scaleScore(score),
	}
}

func scaleScore(score float32) uint16 {
	switch {
	case score <= 0 || math.IsNaN(float64(score)):
		return 0
	case score >= 1:
		return math.MaxUint16
	}
	return uint16(score * math.MaxUint16)
}

// WhiteScore returns the score from white's point of view.
func (b *BoardPack) WhiteScore() float32 {
	stm := float32(b.Score) / math.MaxUint16
	if b.SideToMove == board.White {
		return stm
	}
	return 1 - stm
}

// ApplyResult records the winner of the game the position came from.
func (b *BoardPack) ApplyResult(winner board.Color) {
	switch winner {
	case board.White:
		b.Result = 1
	case board.Black:
		b.Result = -1
	default:
		b.Result = 0
	}
}

// Position rebuilds the packed position.
func (b *BoardPack) Position() (*board.Position, error) {
	return b.Planes.Decode(b.SideToMove)
}

// MarshalBinary encodes b in BoardPackSize little-endian bytes.
func (b *BoardPack) MarshalBinary() ([]byte, error) {
	return b.AppendBinary(make([]byte, 0, BoardPackSize))
}

// AppendBinary appends the encoding of b to buf.
func (b *BoardPack) AppendBinary(buf []byte) ([]byte, error) {
	buf = appendPlanes(buf, &b.Planes)
	buf = append(buf, byte(b.SideToMove))
	buf = binary.LittleEndian.AppendUint16(buf, b.Score)
	return append(buf, byte(b.Result)), nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (b *BoardPack) UnmarshalBinary(data []byte) error {
	if len(data) != BoardPackSize {
		return fmt.Errorf("binpack: board pack is %d bytes, want %d", len(data), BoardPackSize)
	}
	readPlanes(data, &b.Planes)
	stm, err := readSide(data[32])
	if err != nil {
		return err
	}
	b.SideToMove = stm
	b.Score = binary.LittleEndian.Uint16(data[33:])
	b.Result = int8(data[35])
	if b.Result < -1 || b.Result > 1 {
		return fmt.Errorf("binpack: result %d out of range", b.Result)
	}
	return nil
}

func appendPlanes(buf []byte, p *Planes) []byte {
	for _, bb := range p {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(bb))
	}
	return buf
}

func readPlanes(data []byte, p *Planes) {
	for i := range p {
		p[i] = board.Bitboard(binary.LittleEndian.Uint64(data[8*i:]))
	}
}

func readSide(b byte) (board.Color, error) {
	if c := board.Color(b); c == board.White || c == board.Black {
		return c, nil
	}
	return board.NoColor, fmt.Errorf("binpack: side to move %d", b)
}
