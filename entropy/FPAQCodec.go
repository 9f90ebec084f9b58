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

// Carryless binary arithmetic coder derived from fpaq0 by Matt Mahoney.
// See http://mattmahoney.net/dc/#fpaq0.
// The interval split computes (high-low)>>8 before multiplying by the
// probability; reversing that order would reintroduce carries. Bytes
// are emitted whenever the top bytes of low and high agree, so the
// output never needs fixing up after the fact.

// FPAQEncoder encodes bits against 8-bit probabilities.
type FPAQEncoder struct {
	sink *bitstream.DefaultBitSink
	low  uint32
	high uint32
}

// NewFPAQEncoder creates an empty encoder ready to accept bits.
func NewFPAQEncoder() *FPAQEncoder {
	this := &FPAQEncoder{}
	this.sink = bitstream.NewDefaultBitSink()
	this.low = 0
	this.high = 0xFFFFFFFF
	return this
}

func (this *FPAQEncoder) flushBits() error {
	for (this.low^this.high)&0xFF000000 == 0 {
		if err := this.sink.WriteByte(byte(this.high >> 24)); err != nil {
			return err
		}

		this.low <<= 8
		this.high = (this.high << 8) | 0xFF
	}

	return nil
}

func (this *FPAQEncoder) encode(bit int, probability uint32) error {
	mid := this.low + ((this.high-this.low)>>8)*probability

	// The lower part of the interval codes a zero
	if bit == 0 {
		this.high = mid
	} else {
		this.low = mid + 1
	}

	return this.flushBits()
}

// Put encodes one bit with the given context.
func (this *FPAQEncoder) Put(bit int, ctx *BitContext) error {
	probability := uint32(ctx.Probability())
	ctx.Update(bit)
	return this.encode(bit, probability)
}

// PutBypass encodes one bit with the fixed 50/50 split.
func (this *FPAQEncoder) PutBypass(bit int) error {
	return this.encode(bit, 128)
}

// Finish emits the top byte of the interval plus three zero bytes, so
// the decoder can always fill its 32-bit value register, and returns
// the encoded bytes.
func (this *FPAQEncoder) Finish() ([]byte, error) {
	if err := this.sink.WriteByte(byte(this.high >> 24)); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		if err := this.sink.WriteByte(0); err != nil {
			return nil, err
		}
	}

	return this.sink.IntoBytes(), nil
}

// FPAQDecoder decodes a buffer produced by FPAQEncoder.
type FPAQDecoder struct {
	src  cabac.BitSource
	low  uint32
	high uint32
	x    uint32
}

// NewFPAQDecoder creates a decoder over the given encoded bytes.
func NewFPAQDecoder(data []byte) (*FPAQDecoder, error) {
	return NewFPAQDecoderFromSource(bitstream.NewDefaultBitSource(data))
}

// NewFPAQDecoderFromSource creates a decoder reading from the given bit
// source.
func NewFPAQDecoderFromSource(src cabac.BitSource) (*FPAQDecoder, error) {
	this := &FPAQDecoder{}
	this.src = src
	this.low = 0
	this.high = 0xFFFFFFFF

	for i := 0; i < 4; i++ {
		b, err := src.ReadByte()

		if err != nil {
			return nil, err
		}

		this.x = (this.x << 8) | uint32(b)
	}

	return this, nil
}

func (this *FPAQDecoder) fillBits() error {
	for (this.low^this.high)&0xFF000000 == 0 {
		this.low <<= 8
		this.high = (this.high << 8) | 0xFF

		b, err := this.src.ReadByte()

		if err != nil {
			return err
		}

		this.x = (this.x << 8) | uint32(b)
	}

	return nil
}

func (this *FPAQDecoder) decode(probability uint32) int {
	mid := this.low + ((this.high-this.low)>>8)*probability

	if this.x <= mid {
		this.high = mid
		return 0
	}

	this.low = mid + 1
	return 1
}

// Get decodes one bit with the given context.
func (this *FPAQDecoder) Get(ctx *BitContext) (int, error) {
	bit := this.decode(uint32(ctx.Probability()))
	ctx.Update(bit)
	return bit, this.fillBits()
}

// GetBypass decodes one bit written through PutBypass.
func (this *FPAQDecoder) GetBypass() (int, error) {
	bit := this.decode(128)
	return bit, this.fillBits()
}
