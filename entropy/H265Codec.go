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

// Binary arithmetic coder from the ITU-T H.264/H.265 standards (CABAC).
// The probability model is a 6-bit state index driven by fixed
// transition tables; the coding engine keeps a 9-bit range register and
// resolves carries with an outstanding-bit counter.

var transIdxMPS = [64]byte{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32,
	33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48,
	49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 62, 63,
}

var transIdxLPS = [64]byte{
	0, 0, 1, 2, 2, 4, 4, 5, 6, 7, 8, 9, 9, 11, 11, 12,
	13, 13, 15, 15, 16, 16, 18, 18, 19, 19, 21, 21, 22, 22, 23, 24,
	24, 25, 26, 26, 27, 27, 28, 29, 29, 30, 30, 30, 31, 32, 32, 33,
	33, 33, 34, 34, 35, 35, 35, 36, 36, 36, 37, 37, 37, 38, 38, 63,
}

var rangeTabLPS = [64][4]byte{
	{128, 176, 208, 240}, {128, 167, 197, 227}, {128, 158, 187, 216}, {123, 150, 178, 205},
	{116, 142, 169, 195}, {111, 135, 160, 185}, {105, 128, 152, 175}, {100, 122, 144, 166},
	{95, 116, 137, 158}, {90, 110, 130, 150}, {85, 104, 123, 142}, {81, 99, 117, 135},
	{77, 94, 111, 128}, {73, 89, 105, 122}, {69, 85, 100, 116}, {66, 80, 95, 110},
	{62, 76, 90, 104}, {59, 72, 86, 99}, {56, 69, 81, 94}, {53, 65, 77, 89},
	{51, 62, 73, 85}, {48, 59, 69, 80}, {46, 56, 66, 76}, {43, 53, 63, 72},
	{41, 50, 59, 69}, {39, 48, 56, 65}, {37, 45, 54, 62}, {35, 43, 51, 59},
	{33, 41, 48, 56}, {32, 39, 46, 53}, {30, 37, 43, 50}, {29, 35, 41, 48},
	{27, 33, 39, 45}, {26, 31, 37, 43}, {24, 30, 35, 41}, {23, 28, 33, 39},
	{22, 27, 32, 37}, {21, 26, 30, 35}, {20, 24, 29, 33}, {19, 23, 27, 31},
	{18, 22, 26, 30}, {17, 21, 25, 28}, {16, 20, 23, 27}, {15, 19, 22, 25},
	{14, 18, 21, 24}, {14, 17, 20, 23}, {13, 16, 19, 22}, {12, 15, 18, 21},
	{12, 14, 17, 20}, {11, 14, 16, 19}, {11, 13, 15, 18}, {10, 12, 15, 17},
	{10, 12, 14, 16}, {9, 11, 13, 15}, {9, 11, 12, 14}, {8, 10, 12, 14},
	{8, 9, 11, 13}, {7, 9, 11, 12}, {7, 9, 10, 12}, {7, 8, 10, 11},
	{6, 8, 9, 11}, {6, 7, 9, 10}, {6, 7, 8, 9}, {2, 2, 2, 2},
}

// H265Context is the probability model for one syntax element: a state
// index in [0..63] plus the current most probable symbol.
type H265Context struct {
	state byte
	mps   byte
}

// NewH265Context returns a context in its initial state (state 0,
// most probable symbol 0, both outcomes equally likely).
func NewH265Context() H265Context {
	return H265Context{}
}

// NewH265ContextTable returns n freshly initialized contexts, indexed
// by a caller-chosen context identifier.
func NewH265ContextTable(n int) []H265Context {
	return make([]H265Context, n)
}

// H265Encoder is the CABAC encoding engine. The first shifted-out bit
// is discarded, matching the decoder's 9-bit initial fill.
type H265Encoder struct {
	sink        *bitstream.DefaultBitSink
	low         uint32
	rng         uint32
	outstanding int
	firstBit    bool
}

// NewH265Encoder creates an empty encoder ready to accept bits.
func NewH265Encoder() *H265Encoder {
	this := &H265Encoder{}
	this.sink = bitstream.NewDefaultBitSink()
	this.low = 0
	this.rng = 510
	this.firstBit = true
	return this
}

func (this *H265Encoder) putBit(bit int) error {
	if this.firstBit == true {
		this.firstBit = false
	} else if err := this.sink.WriteBit(bit); err != nil {
		return err
	}

	for this.outstanding > 0 {
		if err := this.sink.WriteBit(1 - bit); err != nil {
			return err
		}

		this.outstanding--
	}

	return nil
}

func (this *H265Encoder) renorm() error {
	for this.rng < 0x100 {
		if this.low < 0x100 {
			if err := this.putBit(0); err != nil {
				return err
			}
		} else if this.low >= 0x200 {
			this.low -= 0x200

			if err := this.putBit(1); err != nil {
				return err
			}
		} else {
			// Carry still unresolved for this bit
			this.low -= 0x100
			this.outstanding++
		}

		this.low <<= 1
		this.rng <<= 1
	}

	return nil
}

// Put encodes one bit with the given context.
func (this *H265Encoder) Put(bit int, ctx *H265Context) error {
	lps := uint32(rangeTabLPS[ctx.state][(this.rng>>6)&3])
	this.rng -= lps

	if bit == int(ctx.mps) {
		ctx.state = transIdxMPS[ctx.state]
	} else {
		this.low += this.rng
		this.rng = lps

		if ctx.state == 0 {
			ctx.mps ^= 1
		}

		ctx.state = transIdxLPS[ctx.state]
	}

	return this.renorm()
}

// PutBypass encodes one uniformly distributed bit through the dedicated
// bypass path (no context lookup, exactly one bit of output).
func (this *H265Encoder) PutBypass(bit int) error {
	this.low <<= 1

	if bit != 0 {
		this.low += this.rng
	}

	if this.low >= 0x400 {
		this.low -= 0x400
		return this.putBit(1)
	}

	if this.low < 0x200 {
		return this.putBit(0)
	}

	this.low -= 0x200
	this.outstanding++
	return nil
}

// PutTerminate encodes the end-of-stream bin. A value of 1 flushes the
// arithmetic state; after that the encoder only serves Finish.
func (this *H265Encoder) PutTerminate(bit int) error {
	this.rng -= 2

	if bit == 0 {
		return this.renorm()
	}

	this.low += this.rng
	return this.flushLow()
}

func (this *H265Encoder) flushLow() error {
	this.rng = 2

	if err := this.renorm(); err != nil {
		return err
	}

	if err := this.putBit(int(this.low>>9) & 1); err != nil {
		return err
	}

	if err := this.sink.WriteBit(int(this.low>>8) & 1); err != nil {
		return err
	}

	// Stop bit
	return this.sink.WriteBit(1)
}

// Finish codes a terminating bin of 1, flushes the remaining state and
// returns the encoded bytes.
func (this *H265Encoder) Finish() ([]byte, error) {
	if err := this.PutTerminate(1); err != nil {
		return nil, err
	}

	return this.sink.IntoBytes(), nil
}

// H265Decoder is the CABAC decoding engine over a complete encoded
// buffer. Reads past the end of the buffer yield zero bits, which the
// termination path relies on.
type H265Decoder struct {
	src   cabac.BitSource
	value uint32
	rng   uint32
}

// NewH265Decoder creates a decoder over the given encoded bytes.
func NewH265Decoder(data []byte) (*H265Decoder, error) {
	return NewH265DecoderFromSource(bitstream.NewDefaultBitSource(data))
}

// NewH265DecoderFromSource creates a decoder reading from the given bit
// source.
func NewH265DecoderFromSource(src cabac.BitSource) (*H265Decoder, error) {
	this := &H265Decoder{}
	this.src = src
	this.rng = 510

	for i := 0; i < 9; i++ {
		b, err := src.ReadBit()

		if err != nil {
			return nil, err
		}

		this.value = (this.value << 1) | uint32(b)
	}

	return this, nil
}

func (this *H265Decoder) renorm() error {
	for this.rng < 0x100 {
		b, err := this.src.ReadBit()

		if err != nil {
			return err
		}

		this.rng <<= 1
		this.value = (this.value << 1) | uint32(b)
	}

	return nil
}

// Get decodes one bit with the given context.
func (this *H265Decoder) Get(ctx *H265Context) (int, error) {
	lps := uint32(rangeTabLPS[ctx.state][(this.rng>>6)&3])
	this.rng -= lps

	var bit int

	if this.value < this.rng {
		bit = int(ctx.mps)
		ctx.state = transIdxMPS[ctx.state]
	} else {
		this.value -= this.rng
		this.rng = lps
		bit = int(ctx.mps ^ 1)

		if ctx.state == 0 {
			ctx.mps ^= 1
		}

		ctx.state = transIdxLPS[ctx.state]
	}

	return bit, this.renorm()
}

// GetBypass decodes one bit written through PutBypass.
func (this *H265Decoder) GetBypass() (int, error) {
	b, err := this.src.ReadBit()

	if err != nil {
		return 0, err
	}

	this.value = (this.value << 1) | uint32(b)

	if this.value >= this.rng {
		this.value -= this.rng
		return 1, nil
	}

	return 0, nil
}

// GetTerminate decodes the end-of-stream bin.
func (this *H265Decoder) GetTerminate() (int, error) {
	this.rng -= 2

	if this.value < this.rng {
		return 0, this.renorm()
	}

	return 1, nil
}
