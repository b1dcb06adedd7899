// Package hasher turns solver states into compact memo keys.
//
// Keys are built by folding small bounded integers into one number with a
// mixed radix: acc = acc*cardinality + value. As long as every field stays
// below its declared cardinality the encoding is injective.
package hasher

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/internal/memo"
)

// Packer accumulates mixed-radix fields. It works on a uint64 and only moves
// to a big.Int once a product no longer fits.
type Packer struct {
	acc    uint64
	wide   *big.Int
	tmp    big.Int
	fields int
}

// Reset clears the packer for reuse.
func (p *Packer) Reset() {
	p.acc = 0
	p.wide = nil
	p.fields = 0
}

// Add appends a field holding value in [0, cardinality).
func (p *Packer) Add(cardinality, value int) {
	if cardinality < 1 || value < 0 || value >= cardinality {
		panic(&blackjack.InvariantError{
			Op:     "pack",
			Detail: fmt.Sprintf("field %d value %d outside cardinality %d", p.fields, value, cardinality),
		})
	}
	p.fields++
	if p.wide != nil {
		p.wide.Mul(p.wide, p.tmp.SetUint64(uint64(cardinality)))
		p.wide.Add(p.wide, p.tmp.SetUint64(uint64(value)))
		return
	}
	hi, lo := bits.Mul64(p.acc, uint64(cardinality))
	sum, carry := bits.Add64(lo, uint64(value), 0)
	if hi == 0 && carry == 0 {
		p.acc = sum
		return
	}
	p.wide = new(big.Int).SetUint64(p.acc)
	p.wide.Mul(p.wide, p.tmp.SetUint64(uint64(cardinality)))
	p.wide.Add(p.wide, p.tmp.SetUint64(uint64(value)))
}

// AddBool appends a two-valued field.
func (p *Packer) AddBool(b bool) {
	if b {
		p.Add(2, 1)
	} else {
		p.Add(2, 0)
	}
}

// Wide reports whether the accumulator outgrew 64 bits.
func (p *Packer) Wide() bool {
	return p.wide != nil
}

// Bytes encodes the accumulator. A native value is always 8 bytes and a wide
// one is always longer, so the two forms never collide.
func (p *Packer) Bytes() []byte {
	if p.wide != nil {
		return p.wide.Bytes()
	}
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), p.acc)
}

// Key returns the accumulator as a memo key.
func (p *Packer) Key() memo.Key {
	return memo.Key(p.Bytes())
}
