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
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Property: any interleaving of context coded and bypass bits round
// trips on every codec, with identical context trajectories on both
// sides.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numCtx := rapid.IntRange(1, 16).Draw(rt, "numCtx")
		bits := rapid.SliceOfN(rapid.IntRange(0, 1), 0, 2000).Draw(rt, "bits")
		kinds := rapid.SliceOfN(rapid.IntRange(0, 3), len(bits), len(bits)).Draw(rt, "kinds")

		seq := make([]seqItem, len(bits))

		for i := range seq {
			if kinds[i] == 0 {
				seq[i] = seqItem{bit: bits[i], ctx: _BYPASS}
			} else {
				seq[i] = seqItem{bit: bits[i], ctx: (i * kinds[i]) % numCtx}
			}
		}

		for _, name := range []string{"VP8", "RANS", "FPAQ"} {
			roundTrip(rt, bitHarness(name), seq, numCtx)
		}

		roundTrip(rt, h265Harness(), seq, numCtx)
	})
}

// Property: the lanes of the parallel Fpaq0 coder never interfere,
// whatever the balance of traffic between them.
func TestFPAQParallelProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lanes := rapid.IntRange(1, 8).Draw(rt, "lanes")
		laneSeqs := make([][]int, lanes)

		for i := range laneSeqs {
			laneSeqs[i] = rapid.SliceOfN(rapid.IntRange(0, 1), 0, 500).Draw(rt, "lane")
		}

		enc, err := NewFPAQParallelEncoder(lanes)
		require.NoError(rt, err)

		encCtx := NewBitContextTable(lanes)

		for i, bits := range laneSeqs {
			for _, bit := range bits {
				require.NoError(rt, enc.Put(i, bit, &encCtx[i]))
			}
		}

		data, err := enc.Finish()
		require.NoError(rt, err)
		require.Equal(rt, 0, len(data)%lanes)

		dec, err := NewFPAQParallelDecoder(data, lanes)
		require.NoError(rt, err)

		decCtx := NewBitContextTable(lanes)

		for i, bits := range laneSeqs {
			for k, want := range bits {
				bit, err := dec.Get(i, &decCtx[i])
				require.NoError(rt, err)
				require.Equal(rt, want, bit, "lane %d offset %d", i, k)
			}
		}

		require.Equal(rt, encCtx, decCtx)
	})
}
