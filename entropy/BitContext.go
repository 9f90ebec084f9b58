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
)

// probLookup[counts] is the probability of the next bit being zero, in
// [1..255], for a packed pair of observation counts (false count in the
// high byte, true count in the low byte). Precomputed to avoid a
// division per coded bit.
var probLookup [65536]byte

func init() {
	for i := 1; i < 65536; i++ {
		f := i >> 8
		t := i & 0xFF
		probLookup[i] = byte((f << 8) / (f + t))
	}
}

// BitContext tracks the probability of the next bit being zero for the
// VP8, rANS and Fpaq0 coders. The state is a packed pair of 8-bit
// observation counts; the derived probability always stays in [1..255]
// so that neither outcome is ever coded with zero probability.
type BitContext struct {
	counts uint16
}

// NewBitContext returns a context in its initial balanced state
// (one observation of each symbol, probability 128).
func NewBitContext() BitContext {
	return BitContext{counts: 0x0101}
}

// NewBitContextTable returns n freshly initialized contexts, indexed by
// a caller-chosen context identifier.
func NewBitContextTable(n int) []BitContext {
	table := make([]BitContext, n)

	for i := range table {
		table[i] = NewBitContext()
	}

	return table
}

// Probability returns the probability of the next bit being zero in
// the [1..255] range (128 means both outcomes are equally likely).
func (this *BitContext) Probability() byte {
	return probLookup[this.counts]
}

// Update records the observed bit. The matching counter is incremented;
// on overflow both counters are halved, except when the opposite symbol
// has never been observed, in which case the counts saturate to keep the
// probability pinned at 1 or 255 for long one-sided runs.
func (this *BitContext) Update(bit int) {
	// Rotate so that the observed counter sits in the high byte, then
	// rotate back. Avoids branching on the bit value.
	orig := bits.RotateLeft16(this.counts, (bit&1)*8)
	sum := orig + 0x100

	if sum < orig {
		if orig == 0xFF01 {
			sum = ((1 + sum) >> 1) | 0xFF00
		} else {
			sum = ((1 + sum) >> 1) | 0x8100
		}
	}

	this.counts = bits.RotateLeft16(sum, (bit&1)*8)
}
