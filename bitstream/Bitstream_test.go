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

package bitstream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	cabac "github.com/pmorel/cabac-go"
)

func TestSinkSourceBits(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	bits := make([]int, 1001)
	sink := NewDefaultBitSink()

	for i := range bits {
		bits[i] = r.Intn(2)
		require.NoError(t, sink.WriteBit(bits[i]))
	}

	data := sink.IntoBytes()
	require.Equal(t, (len(bits)+7)/8, len(data))

	src := NewDefaultBitSource(data)

	for i, want := range bits {
		bit, err := src.ReadBit()
		require.NoError(t, err)
		require.Equal(t, want, bit, "bit %d", i)
	}

	// Zero padding of the final partial byte
	for i := 0; i < 7; i++ {
		bit, err := src.ReadBit()
		require.NoError(t, err)
		require.Equal(t, 0, bit)
	}

	require.True(t, src.AtEnd())
}

func TestSinkSourceMixed(t *testing.T) {
	sink := NewDefaultBitSink()

	require.NoError(t, sink.WriteBit(1))
	require.NoError(t, sink.WriteBit(0))
	require.NoError(t, sink.WriteBit(1))
	require.NoError(t, sink.WriteByte(0xA5))
	require.NoError(t, sink.WriteBit(1))
	require.NoError(t, sink.WriteByte(0x3C))

	data := sink.IntoBytes()
	src := NewDefaultBitSource(data)

	for _, want := range []int{1, 0, 1} {
		bit, err := src.ReadBit()
		require.NoError(t, err)
		require.Equal(t, want, bit)
	}

	b, err := src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xA5), b)

	bit, err := src.ReadBit()
	require.NoError(t, err)
	require.Equal(t, 1, bit)

	b, err = src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x3C), b)
}

func TestSourceZeroPastEnd(t *testing.T) {
	src := NewDefaultBitSource([]byte{0xFF})

	b, err := src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), b)
	require.True(t, src.AtEnd())

	for i := 0; i < 64; i++ {
		bit, err := src.ReadBit()
		require.NoError(t, err)
		require.Equal(t, 0, bit)
	}

	b, err = src.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0), b)
}

func TestStrictSourceEOF(t *testing.T) {
	src := NewStrictBitSource([]byte{0xFF})

	for i := 0; i < 8; i++ {
		bit, err := src.ReadBit()
		require.NoError(t, err)
		require.Equal(t, 1, bit)
	}

	_, err := src.ReadBit()
	require.ErrorIs(t, err, cabac.ErrInputExhausted)

	_, err = src.ReadByte()
	require.ErrorIs(t, err, cabac.ErrInputExhausted)
}

func TestStrictSourcePartialByte(t *testing.T) {
	src := NewStrictBitSource([]byte{0xF0})

	bit, err := src.ReadBit()
	require.NoError(t, err)
	require.Equal(t, 1, bit)

	// Only 7 bits remain, a full byte read must fail
	_, err = src.ReadByte()
	require.ErrorIs(t, err, cabac.ErrInputExhausted)
}
