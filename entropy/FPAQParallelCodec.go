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
	"github.com/pkg/errors"
)

// N-way parallel variant of the Fpaq0 coder. Each lane is a fully
// independent carryless coder; the emitted bytes are interleaved round
// robin, so lane i's k-th byte occupies position k*n+i of the output.
// Slots of quieter lanes are reserved and zero filled, hence the output
// length is n times the longest lane; callers are expected to balance
// work across lanes. The fixed layout lets a wide decoder advance all
// lanes in lockstep.
//
// Interleaving scheme after P. G. Howard, "Interleaving entropy codes",
// Proceedings Compression and Complexity of SEQUENCES 1997.

const _FPAQ_MAX_LANES = 256

type fpaqEncLane struct {
	low  uint32
	high uint32
	out  []byte
}

func (this *fpaqEncLane) flushBits() {
	for (this.low^this.high)&0xFF000000 == 0 {
		this.out = append(this.out, byte(this.high>>24))
		this.low <<= 8
		this.high = (this.high << 8) | 0xFF
	}
}

func (this *fpaqEncLane) encode(bit int, probability uint32) {
	mid := this.low + ((this.high-this.low)>>8)*probability

	if bit == 0 {
		this.high = mid
	} else {
		this.low = mid + 1
	}

	this.flushBits()
}

// FPAQParallelEncoder encodes n independent bit substreams into one
// interleaved buffer.
type FPAQParallelEncoder struct {
	lanes []fpaqEncLane
}

// NewFPAQParallelEncoder creates an encoder with n independent lanes.
func NewFPAQParallelEncoder(n int) (*FPAQParallelEncoder, error) {
	if n < 1 || n > _FPAQ_MAX_LANES {
		return nil, errors.Errorf("FPAQ parallel codec: invalid lane count %d (must be in [1..%d])", n, _FPAQ_MAX_LANES)
	}

	this := &FPAQParallelEncoder{}
	this.lanes = make([]fpaqEncLane, n)

	for i := range this.lanes {
		this.lanes[i].high = 0xFFFFFFFF
	}

	return this, nil
}

// Lanes returns the number of substreams.
func (this *FPAQParallelEncoder) Lanes() int {
	return len(this.lanes)
}

// Put encodes one bit on the given lane with the given context.
func (this *FPAQParallelEncoder) Put(lane int, bit int, ctx *BitContext) error {
	if lane < 0 || lane >= len(this.lanes) {
		return errors.Errorf("FPAQ parallel codec: invalid lane %d", lane)
	}

	probability := uint32(ctx.Probability())
	ctx.Update(bit)
	this.lanes[lane].encode(bit, probability)
	return nil
}

// PutBypass encodes one bit on the given lane with the fixed 50/50
// split.
func (this *FPAQParallelEncoder) PutBypass(lane int, bit int) error {
	if lane < 0 || lane >= len(this.lanes) {
		return errors.Errorf("FPAQ parallel codec: invalid lane %d", lane)
	}

	this.lanes[lane].encode(bit, 128)
	return nil
}

// Finish flushes the four byte tail of every lane and interleaves all
// lane bytes round robin into the returned buffer.
func (this *FPAQParallelEncoder) Finish() ([]byte, error) {
	n := len(this.lanes)
	maxLen := 0

	for i := range this.lanes {
		lane := &this.lanes[i]
		lane.out = append(lane.out, byte(lane.high>>24), 0, 0, 0)

		if len(lane.out) > maxLen {
			maxLen = len(lane.out)
		}
	}

	out := make([]byte, n*maxLen)

	for i := range this.lanes {
		for k, b := range this.lanes[i].out {
			out[k*n+i] = b
		}
	}

	return out, nil
}

type fpaqDecLane struct {
	low  uint32
	high uint32
	x    uint32
	pos  int
}

// FPAQParallelDecoder demultiplexes and decodes a buffer produced by
// FPAQParallelEncoder. The lane count is not stored in the stream and
// must match the encoder's.
type FPAQParallelDecoder struct {
	data  []byte
	lanes []fpaqDecLane
}

// NewFPAQParallelDecoder creates a decoder with n lanes over the given
// interleaved bytes.
func NewFPAQParallelDecoder(data []byte, n int) (*FPAQParallelDecoder, error) {
	if n < 1 || n > _FPAQ_MAX_LANES {
		return nil, errors.Errorf("FPAQ parallel codec: invalid lane count %d (must be in [1..%d])", n, _FPAQ_MAX_LANES)
	}

	this := &FPAQParallelDecoder{}
	this.data = data
	this.lanes = make([]fpaqDecLane, n)

	for i := range this.lanes {
		lane := &this.lanes[i]
		lane.high = 0xFFFFFFFF

		for j := 0; j < 4; j++ {
			lane.x = (lane.x << 8) | uint32(this.laneByte(i))
		}
	}

	return this, nil
}

// Lanes returns the number of substreams.
func (this *FPAQParallelDecoder) Lanes() int {
	return len(this.lanes)
}

// laneByte pops the next round-robin byte of the given lane, or zero
// past the end of the buffer.
func (this *FPAQParallelDecoder) laneByte(lane int) byte {
	idx := this.lanes[lane].pos*len(this.lanes) + lane
	this.lanes[lane].pos++

	if idx < len(this.data) {
		return this.data[idx]
	}

	return 0
}

func (this *FPAQParallelDecoder) fillBits(lane int) {
	l := &this.lanes[lane]

	for (l.low^l.high)&0xFF000000 == 0 {
		l.low <<= 8
		l.high = (l.high << 8) | 0xFF
		l.x = (l.x << 8) | uint32(this.laneByte(lane))
	}
}

func (this *FPAQParallelDecoder) decode(lane int, probability uint32) int {
	l := &this.lanes[lane]
	mid := l.low + ((l.high-l.low)>>8)*probability

	if l.x <= mid {
		l.high = mid
		return 0
	}

	l.low = mid + 1
	return 1
}

// Get decodes one bit from the given lane with the given context.
func (this *FPAQParallelDecoder) Get(lane int, ctx *BitContext) (int, error) {
	if lane < 0 || lane >= len(this.lanes) {
		return 0, errors.Errorf("FPAQ parallel codec: invalid lane %d", lane)
	}

	bit := this.decode(lane, uint32(ctx.Probability()))
	ctx.Update(bit)
	this.fillBits(lane)
	return bit, nil
}

// GetBypass decodes one bit from the given lane written through
// PutBypass.
func (this *FPAQParallelDecoder) GetBypass(lane int) (int, error) {
	if lane < 0 || lane >= len(this.lanes) {
		return 0, errors.Errorf("FPAQ parallel codec: invalid lane %d", lane)
	}

	bit := this.decode(lane, 128)
	this.fillBits(lane)
	return bit, nil
}

// GetLanes decodes one bit from every lane in lockstep. The context
// slice must hold one context per lane; bits are returned in lane
// order. The inner loop is the vectorization target of the optional
// simd build.
func (this *FPAQParallelDecoder) GetLanes(ctxs []BitContext) ([]int, error) {
	if len(ctxs) != len(this.lanes) {
		return nil, errors.Errorf("FPAQ parallel codec: got %d contexts for %d lanes", len(ctxs), len(this.lanes))
	}

	bits := make([]int, len(this.lanes))
	this.getLanes(ctxs, bits)
	return bits, nil
}
