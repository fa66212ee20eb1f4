package binpack

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// MaxPolicyMoves is the number of moves a PolicyPack can hold.
const MaxPolicyMoves = 101

// ErrPolicyFull is returned when a move is pushed onto a full PolicyPack.
var ErrPolicyFull = errors.New("binpack: policy pack is full")

// PolicyMove is a searched root move and the visits it received.
type PolicyMove struct {
	Move   board.Move
	Visits uint16
}

// PolicyPack is a position with the visit distribution over its moves.
type PolicyPack struct {
	Planes     Planes
	SideToMove board.Color
	count      uint8
	moves      [MaxPolicyMoves]PolicyMove
}

// PolicyPackSize is the encoded length of a PolicyPack.
const PolicyPackSize = 4*8 + 1 + 1 + MaxPolicyMoves*4

// NewPolicyPack packs the placement of pos with no moves.
func NewPolicyPack(pos *board.Position) *PolicyPack {
	return &PolicyPack{Planes: EncodePlanes(pos), SideToMove: pos.SideToMove()}
}

// PushMove appends m with its visit count.
func (p *PolicyPack) PushMove(m board.Move, visits uint16) error {
	if int(p.count) == MaxPolicyMoves {
		return ErrPolicyFull
	}
	p.moves[p.count] = PolicyMove{Move: m, Visits: visits}
	p.count++
	return nil
}

func (p *PolicyPack) Len() int { return int(p.count) }

// Moves returns the pushed moves in order.
func (p *PolicyPack) Moves() []PolicyMove { return p.moves[:p.count] }

// Position rebuilds the packed position.
func (p *PolicyPack) Position() (*board.Position, error) {
	return p.Planes.Decode(p.SideToMove)
}

// MarshalBinary encodes p in PolicyPackSize bytes. Unused move slots are
// zero.
func (p *PolicyPack) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, PolicyPackSize))
}

func (p *PolicyPack) AppendBinary(buf []byte) ([]byte, error) {
	buf = appendPlanes(buf, &p.Planes)
	buf = append(buf, byte(p.SideToMove), p.count)
	for _, pm := range p.moves {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(pm.Move))
		buf = binary.LittleEndian.AppendUint16(buf, pm.Visits)
	}
	return buf, nil
}

func (p *PolicyPack) UnmarshalBinary(data []byte) error {
	if len(data) != PolicyPackSize {
		return fmt.Errorf("binpack: policy pack is %d bytes, want %d", len(data), PolicyPackSize)
	}
	readPlanes(data, &p.Planes)
	stm, err := readSide(data[32])
	if err != nil {
		return err
	}
	p.SideToMove = stm
	if data[33] > MaxPolicyMoves {
		return fmt.Errorf("binpack: policy move count %d", data[33])
	}
	p.count = data[33]
	rest := data[34:]
	for i := range p.moves {
		p.moves[i] = PolicyMove{
			Move:   board.Move(binary.LittleEndian.Uint16(rest[4*i:])),
			Visits: binary.LittleEndian.Uint16(rest[4*i+2:]),
		}
	}
	return nil
}
