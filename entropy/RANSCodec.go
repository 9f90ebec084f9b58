/*
Copyright 2019-2026 the cabac-go authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import (
	cabac "github.com/pmorel/cabac-go"
	"github.com/pmorel/cabac-go/bitstream"
)

// Range-variant Asymmetric Numeral System coder over the binary
// alphabet, with 8 bits of probability resolution. The encoder streams
// bytes in reverse coding order; Finish reverses the buffer once so the
// decoder reads forward with the natural state initialization.
// See "Asymmetric Numeral System" by Jarek Duda at http://arxiv.org/abs/0902.0271

const _RANS_LOW_BOUND = uint32(1) << 16

type ransSymbol struct {
	bit  byte
	prob byte
}

// startFreq maps a bit and its probability of zero to the (cumulative
// start, frequency) pair of the 256-slot alphabet.
func startFreq(bit byte, prob byte) (uint32, uint32) {
	if bit != 0 {
		return uint32(prob), 256 - uint32(prob)
	}

	return 0, uint32(prob)
}

// RANSEncoder records the bit sequence on Put and runs the actual
// entropy coding pass in Finish, since rANS must encode the symbols in
// reverse order. Contexts are read and updated in caller order, so the
// context trajectory matches the decoder's.
type RANSEncoder struct {
	syms []ransSymbol
}

// NewRANSEncoder creates an empty encoder ready to accept bits.
func NewRANSEncoder() *RANSEncoder {
	this := &RANSEncoder{}
	this.syms = make([]ransSymbol, 0, 64)
	return this
}

// Put records one bit with the probability currently tracked by the
// given context.
func (this *RANSEncoder) Put(bit int, ctx *BitContext) error {
	this.syms = append(this.syms, ransSymbol{bit: byte(bit & 1), prob: ctx.Probability()})
	ctx.Update(bit)
	return nil
}

// PutBypass records one bit with the fixed 50/50 probability.
func (this *RANSEncoder) PutBypass(bit int) error {
	this.syms = append(this.syms, ransSymbol{bit: byte(bit & 1), prob: 128})
	return nil
}

// Finish encodes the recorded bits tail first, appends the four bytes
// of the final state and returns the buffer reversed into forward
// reading order.
func (this *RANSEncoder) Finish() ([]byte, error) {
	out := make([]byte, 0, len(this.syms)/4+4)
	x := _RANS_LOW_BOUND

	for i := len(this.syms) - 1; i >= 0; i-- {
		start, freq := startFreq(this.syms[i].bit, this.syms[i].prob)

		for x >= freq<<16 {
			out = append(out, byte(x))
			x >>= 8
		}

		x = ((x/freq)<<8 | x%freq) + start
	}

	out = append(out, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out, nil
}

// RANSDecoder decodes a buffer produced by RANSEncoder, reading bytes
// from position 0 forward. The caller must know the bit count: the
// stream carries no end marker.
type RANSDecoder struct {
	src cabac.BitSource
	x   uint32
}

// NewRANSDecoder creates a decoder over the given encoded bytes.
func NewRANSDecoder(data []byte) (*RANSDecoder, error) {
	return NewRANSDecoderFromSource(bitstream.NewDefaultBitSource(data))
}

// NewRANSDecoderFromSource creates a decoder reading from the given bit
// source.
func NewRANSDecoderFromSource(src cabac.BitSource) (*RANSDecoder, error) {
	this := &RANSDecoder{}
	this.src = src

	for i := 0; i < 4; i++ {
		b, err := src.ReadByte()

		if err != nil {
			return nil, err
		}

		this.x = (this.x << 8) | uint32(b)
	}

	return this, nil
}

func (this *RANSDecoder) advance(slot uint32, start uint32, freq uint32) error {
	this.x = freq*(this.x>>8) + slot - start

	for this.x < _RANS_LOW_BOUND {
		b, err := this.src.ReadByte()

		if err != nil {
			return err
		}

		this.x = (this.x << 8) | uint32(b)
	}

	return nil
}

// Get decodes one bit with the given context.
func (this *RANSDecoder) Get(ctx *BitContext) (int, error) {
	prob := ctx.Probability()
	slot := this.x & 0xFF

	var bit int

	if slot >= uint32(prob) {
		bit = 1
	}

	ctx.Update(bit)
	start, freq := startFreq(byte(bit), prob)
	return bit, this.advance(slot, start, freq)
}

// GetBypass decodes one bit recorded through PutBypass.
func (this *RANSDecoder) GetBypass() (int, error) {
	slot := this.x & 0xFF

	var bit int

	if slot >= 128 {
		bit = 1
	}

	start, freq := startFreq(byte(bit), 128)
	return bit, this.advance(slot, start, freq)
}
