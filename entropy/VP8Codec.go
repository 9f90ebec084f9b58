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
	"math/bits"

	cabac "github.com/pmorel/cabac-go"
	"github.com/pmorel/cabac-go/bitstream"
)

// Boolean arithmetic coder from the VP8/WebM format. The range register
// stays in [128..255]; carries are resolved by buffering the last
// emitted byte together with a run length of pending 0xFF bytes.
// Both sides code one conventional marker bit at construction.

// VP8Encoder encodes bits against 8-bit probabilities.
type VP8Encoder struct {
	sink         *bitstream.DefaultBitSink
	lowValue     uint32
	rng          uint32
	bitsLeft     int32
	bufferedByte byte
	numBuffered  uint32
}

// NewVP8Encoder creates an empty encoder ready to accept bits.
func NewVP8Encoder() (*VP8Encoder, error) {
	this := &VP8Encoder{}
	this.sink = bitstream.NewDefaultBitSink()
	this.rng = 255
	this.bitsLeft = -24

	// Marker bit
	dummy := NewBitContext()

	if err := this.Put(0, &dummy); err != nil {
		return nil, err
	}

	return this, nil
}

func (this *VP8Encoder) flushBuffered(carry byte) error {
	if this.numBuffered == 0 {
		return nil
	}

	if err := this.sink.WriteByte(this.bufferedByte + carry); err != nil {
		return err
	}

	this.numBuffered--

	for this.numBuffered > 0 {
		if err := this.sink.WriteByte(0xFF + carry); err != nil {
			return err
		}

		this.numBuffered--
	}

	return nil
}

func (this *VP8Encoder) encode(bit int, probability uint32) error {
	tmpRange := this.rng
	split := 1 + (((tmpRange - 1) * probability) >> 8)
	tmpLow := this.lowValue

	var shift int32

	if bit != 0 {
		tmpLow += split
		tmpRange -= split
		shift = int32(bits.LeadingZeros8(uint8(tmpRange)))
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros8(uint8(split)))
	}

	tmpRange <<= uint(shift)
	tmpCount := this.bitsLeft + shift

	if tmpCount >= 0 {
		offset := shift - tmpCount
		lastByte := tmpLow >> uint(24-offset)

		if lastByte&0x100 != 0 {
			// Carry ripples into the buffered bytes
			if err := this.flushBuffered(1); err != nil {
				return err
			}
		}

		if byte(lastByte) == 0xFF {
			this.numBuffered++
		} else {
			if err := this.flushBuffered(0); err != nil {
				return err
			}

			this.bufferedByte = byte(lastByte)
			this.numBuffered = 1
		}

		tmpLow <<= uint(offset)
		shift = tmpCount
		tmpLow &= 0xFFFFFF
		tmpCount -= 8
	}

	tmpLow <<= uint(shift)
	this.bitsLeft = tmpCount
	this.lowValue = tmpLow
	this.rng = tmpRange
	return nil
}

// Put encodes one bit with the given context.
func (this *VP8Encoder) Put(bit int, ctx *BitContext) error {
	probability := uint32(ctx.Probability())
	ctx.Update(bit)
	return this.encode(bit, probability)
}

// PutBypass encodes one bit with the fixed 50/50 split, leaving every
// context untouched.
func (this *VP8Encoder) PutBypass(bit int) error {
	tmpRange := this.rng
	split := 1 + (tmpRange >> 1)
	tmpLow := this.lowValue

	var shift int32

	if bit != 0 {
		tmpLow += split
		tmpRange -= split
		shift = int32(bits.LeadingZeros8(uint8(tmpRange)))
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros8(uint8(split)))
	}

	tmpRange <<= uint(shift)
	tmpCount := this.bitsLeft + shift

	if tmpCount >= 0 {
		offset := shift - tmpCount
		lastByte := tmpLow >> uint(24-offset)

		if lastByte&0x100 != 0 {
			if err := this.flushBuffered(1); err != nil {
				return err
			}
		}

		if byte(lastByte) == 0xFF {
			this.numBuffered++
		} else {
			if err := this.flushBuffered(0); err != nil {
				return err
			}

			this.bufferedByte = byte(lastByte)
			this.numBuffered = 1
		}

		tmpLow <<= uint(offset)
		shift = tmpCount
		tmpLow &= 0xFFFFFF
		tmpCount -= 8
	}

	tmpLow <<= uint(shift)
	this.bitsLeft = tmpCount
	this.lowValue = tmpLow
	this.rng = tmpRange
	return nil
}

// Finish pads the stream so that no carry can reach the emitted bytes,
// flushes the buffered run and returns the encoded bytes.
func (this *VP8Encoder) Finish() ([]byte, error) {
	for this.lowValue > 0 {
		if err := this.PutBypass(0); err != nil {
			return nil, err
		}
	}

	if err := this.flushBuffered(0); err != nil {
		return nil, err
	}

	return this.sink.IntoBytes(), nil
}

// VP8Decoder decodes a buffer produced by VP8Encoder. The value window
// is 64 bits wide and refilled up to 8 bytes at a time.
type VP8Decoder struct {
	src   cabac.BitSource
	value uint64
	rng   uint32
	count int32
}

// NewVP8Decoder creates a decoder over the given encoded bytes.
func NewVP8Decoder(data []byte) (*VP8Decoder, error) {
	return NewVP8DecoderFromSource(bitstream.NewDefaultBitSource(data))
}

// NewVP8DecoderFromSource creates a decoder reading from the given bit
// source.
func NewVP8DecoderFromSource(src cabac.BitSource) (*VP8Decoder, error) {
	this := &VP8Decoder{}
	this.src = src
	this.rng = 255
	this.count = -8

	if err := this.fill(); err != nil {
		return nil, err
	}

	// Marker bit
	dummy := NewBitContext()

	if _, err := this.Get(&dummy); err != nil {
		return nil, err
	}

	return this, nil
}

func (this *VP8Decoder) fill() error {
	shift := 56 - (this.count + 8)

	for shift >= 0 {
		if this.src.AtEnd() {
			break
		}

		b, err := this.src.ReadByte()

		if err != nil {
			return err
		}

		this.value |= uint64(b) << uint(shift)
		shift -= 8
		this.count += 8
	}

	return nil
}

// Get decodes one bit with the given context.
func (this *VP8Decoder) Get(ctx *BitContext) (int, error) {
	if this.count < 0 {
		if err := this.fill(); err != nil {
			return 0, err
		}
	}

	probability := uint32(ctx.Probability())
	split := 1 + (((this.rng - 1) * probability) >> 8)
	bigSplit := uint64(split) << 56

	var bit int

	if this.value >= bigSplit {
		bit = 1
		this.rng -= split
		this.value -= bigSplit
	} else {
		this.rng = split
	}

	ctx.Update(bit)

	shift := int32(bits.LeadingZeros32(this.rng)) - 24
	this.value <<= uint(shift)
	this.rng <<= uint(shift)
	this.count -= shift
	return bit, nil
}

// GetBypass decodes one bit written through PutBypass.
func (this *VP8Decoder) GetBypass() (int, error) {
	if this.count < 0 {
		if err := this.fill(); err != nil {
			return 0, err
		}
	}

	split := 1 + (this.rng >> 1)
	bigSplit := uint64(split) << 56

	var bit int

	if this.value >= bigSplit {
		bit = 1
		this.rng -= split
		this.value -= bigSplit
	} else {
		this.rng = split
	}

	shift := int32(bits.LeadingZeros32(this.rng)) - 24
	this.value <<= uint(shift)
	this.rng <<= uint(shift)
	this.count -= shift
	return bit, nil
}
