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
)

func TestDebugCodecRoundTrip(t *testing.T) {
	w := NewDebugEncoder()
	ctxs := NewDebugContextTable(8)
	branches := make([][]DebugContext, 4)

	for i := range branches {
		branches[i] = NewDebugContextTable(8)
	}

	for i := 0; i < 100; i++ {
		require.NoError(t, w.Put(i&1, &ctxs[i%4]))
		require.NoError(t, w.PutBypass(i&1))
		require.NoError(t, PutNBits[DebugContext](w, 0x456, 24, ctxs))
		require.NoError(t, PutUnary[DebugContext](w, i%20, ctxs))
		require.NoError(t, PutBranched[DebugContext](w, byte(i%16), branches))
	}

	data, err := w.Finish()
	require.NoError(t, err)

	r := NewDebugDecoder(data)
	ctxs = NewDebugContextTable(8)

	for i := range branches {
		branches[i] = NewDebugContextTable(8)
	}

	for i := 0; i < 100; i++ {
		bit, err := r.Get(&ctxs[i%4])
		require.NoError(t, err)
		require.Equal(t, i&1, bit)

		bit, err = r.GetBypass()
		require.NoError(t, err)
		require.Equal(t, i&1, bit)

		v, err := GetNBits[DebugContext](r, 24, ctxs)
		require.NoError(t, err)
		require.Equal(t, uint64(0x456), v)

		u, err := GetUnary[DebugContext](r, ctxs)
		require.NoError(t, err)
		require.Equal(t, i%20, u)

		b, err := GetBranched[DebugContext](r, branches)
		require.NoError(t, err)
		require.Equal(t, byte(i%16), b)
	}
}

// Presenting the wrong context during decode must fail loudly.
func TestDebugCodecDetectsMismatch(t *testing.T) {
	w := NewDebugEncoder()
	ctxs := NewDebugContextTable(2)

	require.NoError(t, w.Put(1, &ctxs[0]))
	require.NoError(t, w.Put(0, &ctxs[1]))

	data, err := w.Finish()
	require.NoError(t, err)

	r := NewDebugDecoder(data)
	decCtxs := NewDebugContextTable(2)

	_, err = r.Get(&decCtxs[0])
	require.NoError(t, err)

	// Context 0 again where the encoder used context 1
	_, err = r.Get(&decCtxs[0])
	require.Error(t, err)
}
