package board

import (
	"fmt"
	"math/bits"
)

// Magic holds the hashing parameters for one slider square.
// The attack set for occupancy occ is table[Offset + ((occ&Mask)*Magic)>>Shift].
type Magic struct {
	Mask   Bitboard
	Magic  uint64
	Shift  uint8
	Offset uint32
}

func (m *Magic) index(occ Bitboard) uint32 {
	return m.Offset + uint32((uint64(occ&m.Mask)*m.Magic)>>m.Shift)
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	// Sized for the full relevant-bit counts: sum of 2^bits over all squares.
	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

// magicSeed fixes the search so every process builds the same tables.
const magicSeed = 0x5DEECE66D1B2F3A7

// maxMagicTries bounds the search per square. Every square needs far
// fewer; running out means the search itself is broken.
const maxMagicTries = 100_000_000

func initMagics() {
	rng := newPRNG(magicSeed)
	findMagics(bishopMagics[:], bishopTable[:], bishopDirections[:], rng)
	findMagics(rookMagics[:], rookTable[:], rookDirections[:], rng)
}

// relevantMask is the empty-board slider set minus the last square of each
// ray, since a blocker on an edge never changes the result.
func relevantMask(sq Square, dirs []direction) Bitboard {
	var mask Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for f+d.df >= 0 && f+d.df < 8 && r+d.dr >= 0 && r+d.dr < 8 {
			mask |= SquareBB(NewSquare(f, r))
			f += d.df
			r += d.dr
		}
	}
	return mask
}

// findMagics searches a magic for every square and fills table. A candidate
// is accepted only after every subset of the mask hashes without a
// destructive collision against the ray-walk reference.
func findMagics(magics []Magic, table []Bitboard, dirs []direction, rng *prng) {
	var (
		occupancy [4096]Bitboard
		reference [4096]Bitboard
		epoch     [4096]int
	)
	offset := uint32(0)
	attempt := 0

	for sq := A1; sq <= H8; sq++ {
		m := &magics[sq]
		m.Mask = relevantMask(sq, dirs)
		n := m.Mask.PopCount()
		m.Shift = uint8(64 - n)
		m.Offset = offset
		size := 1 << n

		// Carry-Rippler enumeration of every subset of the mask.
		var subset Bitboard
		for i := 0; i < size; i++ {
			occupancy[i] = subset
			reference[i] = slideAttacks(sq, subset, dirs)
			subset = (subset - m.Mask) & m.Mask
		}

		slots := table[offset : offset+uint32(size)]
		found := false
		for try := 0; try < maxMagicTries && !found; try++ {
			magic := rng.sparse()
			if bits.OnesCount64((uint64(m.Mask)*magic)>>56) < 6 {
				continue
			}
			m.Magic = magic
			attempt++
			found = true
			for i := 0; i < size; i++ {
				idx := (uint64(occupancy[i]) * magic) >> m.Shift
				if epoch[idx] < attempt {
					epoch[idx] = attempt
					slots[idx] = reference[i]
				} else if slots[idx] != reference[i] {
					found = false
					break
				}
			}
		}
		if !found {
			panic(fmt.Sprintf("board: no magic found for %v", sq))
		}
		offset += uint32(size)
	}
}
