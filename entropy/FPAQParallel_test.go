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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFPAQParallelUnbalanced(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	laneSeqs := [][]int{make([]int, 5000), make([]int, 10), {}}

	for i := range laneSeqs[0] {
		if r.Intn(10) == 0 {
			laneSeqs[0][i] = 1
		}
	}

	for i := range laneSeqs[1] {
		laneSeqs[1][i] = i & 1
	}

	enc, err := NewFPAQParallelEncoder(3)
	require.NoError(t, err)

	encCtx := NewBitContextTable(3)

	for i, bits := range laneSeqs {
		for _, bit := range bits {
			require.NoError(t, enc.Put(i, bit, &encCtx[i]))
		}
	}

	data, err := enc.Finish()
	require.NoError(t, err)
	require.Equal(t, 0, len(data)%3)

	dec, err := NewFPAQParallelDecoder(data, 3)
	require.NoError(t, err)

	decCtx := NewBitContextTable(3)

	for i, bits := range laneSeqs {
		for k, want := range bits {
			bit, err := dec.Get(i, &decCtx[i])
			require.NoError(t, err)
			require.Equal(t, want, bit, "lane %d offset %d", i, k)
		}
	}

	require.Equal(t, encCtx, decCtx)
}

func TestFPAQParallelLockstep(t *testing.T) {
	const lanes = 4

	r := rand.New(rand.NewSource(21))
	steps := make([][lanes]int, 2500)

	enc, err := NewFPAQParallelEncoder(lanes)
	require.NoError(t, err)

	encCtx := NewBitContextTable(lanes)

	for s := range steps {
		for i := 0; i < lanes; i++ {
			steps[s][i] = r.Intn(2)
			require.NoError(t, enc.Put(i, steps[s][i], &encCtx[i]))
		}
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := NewFPAQParallelDecoder(data, lanes)
	require.NoError(t, err)

	decCtx := NewBitContextTable(lanes)

	for s := range steps {
		bits, err := dec.GetLanes(decCtx)
		require.NoError(t, err)

		for i := 0; i < lanes; i++ {
			require.Equal(t, steps[s][i], bits[i], "step %d lane %d", s, i)
		}
	}

	require.Equal(t, encCtx, decCtx)
}

func TestFPAQParallelBypass(t *testing.T) {
	enc, err := NewFPAQParallelEncoder(2)
	require.NoError(t, err)

	for i := 0; i < 1024; i++ {
		require.NoError(t, enc.PutBypass(i%2, i&1))
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	dec, err := NewFPAQParallelDecoder(data, 2)
	require.NoError(t, err)

	for i := 0; i < 1024; i++ {
		bit, err := dec.GetBypass(i % 2)
		require.NoError(t, err)
		require.Equal(t, i&1, bit, "offset %d", i)
	}
}

// The interleave layout is fixed: byte k of lane i sits at k*n+i, and
// idle lanes still reserve their slots.
func TestFPAQParallelLayout(t *testing.T) {
	enc, err := NewFPAQParallelEncoder(2)
	require.NoError(t, err)

	data, err := enc.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0}, data)

	dec, err := NewFPAQParallelDecoder(data, 2)
	require.NoError(t, err)
	require.Equal(t, 2, dec.Lanes())
}

func TestFPAQParallelValidation(t *testing.T) {
	_, err := NewFPAQParallelEncoder(0)
	require.Error(t, err)

	_, err = NewFPAQParallelDecoder(nil, 1000)
	require.Error(t, err)

	enc, err := NewFPAQParallelEncoder(2)
	require.NoError(t, err)

	ctx := NewBitContext()
	require.Error(t, enc.Put(2, 1, &ctx))
	require.Error(t, enc.PutBypass(-1, 1))

	dec, err := NewFPAQParallelDecoder(nil, 2)
	require.NoError(t, err)

	_, err = dec.Get(5, &ctx)
	require.Error(t, err)

	_, err = dec.GetLanes(NewBitContextTable(3))
	require.Error(t, err)
}
