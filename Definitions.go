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

// Package cabac defines the top level contracts shared by the binary
// entropy codecs implemented in this module.
//
// The implementations of these interfaces are available in sub-folders:
// the bitstream package provides the byte level sinks and sources, the
// entropy package provides the H.264/265, VP8, rANS and Fpaq0 coders
// together with their probability contexts.
package cabac

import (
	"github.com/pkg/errors"
)

// ErrInputExhausted is returned by explicit-EOF bit sources when a read
// goes past the end of the encoded data. The default in-memory source
// never returns it: reading past the end yields zero bits, as required
// by the H.264/265 termination semantics.
var ErrInputExhausted = errors.New("input exhausted")

// ErrOutputFailure is returned when a bit sink cannot accept more data
// (for instance when an externally supplied writer refuses a byte).
var ErrOutputFailure = errors.New("output failure")

// BitSink is a byte-granular output accumulator used by the encoders.
// Bits are written MSB first inside each byte.
type BitSink interface {
	// WriteBit appends the least significant bit of the input integer.
	WriteBit(bit int) error

	// WriteByte appends 8 bits at the current bit position.
	WriteByte(b byte) error

	// IntoBytes flushes any partially filled byte with zero padding and
	// returns the accumulated sequence. The sink must not be written to
	// afterwards.
	IntoBytes() []byte

	// Len returns the number of complete bytes accumulated so far.
	Len() int
}

// BitSource is a sequential reader over an immutable byte sequence.
// Bits are consumed MSB first inside each byte.
type BitSource interface {
	// ReadBit returns the next bit (0 or 1).
	ReadBit() (int, error)

	// ReadByte returns the next 8 bits at the current bit position.
	ReadByte() (byte, error)

	// AtEnd returns true once every bit of the sequence has been consumed.
	AtEnd() bool
}

// Encoder converts a sequence of bits, each predicted by a context of
// type C, into a compact byte sequence. A caller issues Put/PutBypass
// calls then Finish exactly once; the encoder must not be reused.
type Encoder[C any] interface {
	// Put encodes one bit (0 or 1) using the probability tracked by the
	// given context, then updates the context with the observed bit.
	Put(bit int, ctx *C) error

	// PutBypass encodes one bit assumed to be uniformly distributed,
	// leaving every context untouched.
	PutBypass(bit int) error

	// Finish flushes the coder state and returns the encoded bytes.
	Finish() ([]byte, error)
}

// Decoder reconstructs the bit sequence produced by the matching
// Encoder. The caller must present equivalent contexts in the same
// order as during encoding; the library cannot detect a mismatch.
type Decoder[C any] interface {
	// Get decodes one bit using the probability tracked by the given
	// context, then updates the context with the decoded bit.
	Get(ctx *C) (int, error)

	// GetBypass decodes one bit written through PutBypass.
	GetBypass() (int, error)
}
