package generator

import (
	"strings"

	"github.com/rewardStyle/rowloader/message"
)

// Alphabet is the set of symbols synthetic rows are drawn from.
const Alphabet = "abcdef0123456789"

// RowLength is the number of characters in every synthetic row.
const RowLength = 16

// XorShift is a 64 bit xorshift pseudo-random generator.  Its output is a pure function of the seed, so two
// generators created with the same seed produce the same sequence.  An XorShift is not safe for concurrent use;
// each producer owns its own.
type XorShift struct {
	state uint64
}

// NewXorShift creates a generator from seed.  The all-zero state is a fixed point of the transform, so a zero
// seed is clamped to 1.
func NewXorShift(seed uint64) *XorShift {
	if seed < 1 {
		seed = 1
	}
	return &XorShift{state: seed}
}

// Next advances the generator and returns the new state.
func (x *XorShift) Next() uint64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return x.state
}

// State returns the current state without advancing the generator.
func (x *XorShift) State() uint64 {
	return x.state
}

// NewRowBatch builds count rows of RowLength characters picked from Alphabet.  A count of zero or less yields
// an empty batch.
func NewRowBatch(rng *XorShift, count int) *message.RowBatch {
	if count < 0 {
		count = 0
	}
	rows := make([]string, 0, count)
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.Reset()
		sb.Grow(RowLength)
		for j := 0; j < RowLength; j++ {
			sb.WriteByte(Alphabet[rng.Next()%uint64(len(Alphabet))])
		}
		rows = append(rows, sb.String())
	}
	return &message.RowBatch{Rows: rows}
}
