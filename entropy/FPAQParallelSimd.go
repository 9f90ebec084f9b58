//go:build simd

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
	"golang.org/x/sys/cpu"
)

// Opt-in wide path for the parallel decoder: four lanes are advanced
// per iteration with branchless interval updates so the compiler can
// keep the lane registers live and vectorize the arithmetic. Gated on
// SSE4.1 because narrower targets showed no gain over the scalar loop;
// falls back when the lane count is not a multiple of four.

var hasWideLanes = cpu.X86.HasSSE41

func (this *FPAQParallelDecoder) getLanes(ctxs []BitContext, bits []int) {
	if !hasWideLanes || len(this.lanes)%4 != 0 {
		for i := range this.lanes {
			bits[i] = this.decode(i, uint32(ctxs[i].Probability()))
			ctxs[i].Update(bits[i])
			this.fillBits(i)
		}

		return
	}

	for i := 0; i < len(this.lanes); i += 4 {
		l0 := &this.lanes[i]
		l1 := &this.lanes[i+1]
		l2 := &this.lanes[i+2]
		l3 := &this.lanes[i+3]

		m0 := l0.low + ((l0.high-l0.low)>>8)*uint32(ctxs[i].Probability())
		m1 := l1.low + ((l1.high-l1.low)>>8)*uint32(ctxs[i+1].Probability())
		m2 := l2.low + ((l2.high-l2.low)>>8)*uint32(ctxs[i+2].Probability())
		m3 := l3.low + ((l3.high-l3.low)>>8)*uint32(ctxs[i+3].Probability())

		b0 := branchlessPick(l0, m0)
		b1 := branchlessPick(l1, m1)
		b2 := branchlessPick(l2, m2)
		b3 := branchlessPick(l3, m3)

		ctxs[i].Update(b0)
		ctxs[i+1].Update(b1)
		ctxs[i+2].Update(b2)
		ctxs[i+3].Update(b3)

		bits[i] = b0
		bits[i+1] = b1
		bits[i+2] = b2
		bits[i+3] = b3

		this.fillBits(i)
		this.fillBits(i + 1)
		this.fillBits(i + 2)
		this.fillBits(i + 3)
	}
}

// branchlessPick narrows the lane interval around x without a branch on
// the comparison result.
func branchlessPick(l *fpaqDecLane, mid uint32) int {
	// mask is all ones when x > mid (the bit is 1)
	mask := uint32(0)

	if l.x > mid {
		mask = 0xFFFFFFFF
	}

	l.high = mid ^ ((l.high ^ mid) & mask)
	l.low ^= (l.low ^ (mid + 1)) & mask
	return int(mask & 1)
}
