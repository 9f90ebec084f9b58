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
	cabac "github.com/pmorel/cabac-go"
)

// DefaultBitSource reads bits MSB first from an immutable byte slice.
// Reading past the end of the slice yields zero bits with a nil error,
// which the H.264/265 decoder termination relies on.
type DefaultBitSource struct {
	data   []byte
	pos    int
	bitPos uint
}

// NewDefaultBitSource creates a DefaultBitSource over the given bytes.
// The slice is not copied and must not be mutated during decoding.
func NewDefaultBitSource(data []byte) *DefaultBitSource {
	this := &DefaultBitSource{}
	this.data = data
	return this
}

// ReadBit returns the next bit, or 0 past the end of the sequence.
func (this *DefaultBitSource) ReadBit() (int, error) {
	if this.pos >= len(this.data) {
		return 0, nil
	}

	bit := int(this.data[this.pos]>>(7-this.bitPos)) & 1
	this.bitPos++

	if this.bitPos == 8 {
		this.bitPos = 0
		this.pos++
	}

	return bit, nil
}

// ReadByte returns the next 8 bits at the current bit position, padding
// with zeros past the end of the sequence.
func (this *DefaultBitSource) ReadByte() (byte, error) {
	if this.bitPos == 0 {
		if this.pos >= len(this.data) {
			return 0, nil
		}

		b := this.data[this.pos]
		this.pos++
		return b, nil
	}

	var b byte

	if this.pos < len(this.data) {
		b = this.data[this.pos] << this.bitPos
		this.pos++

		if this.pos < len(this.data) {
			b |= this.data[this.pos] >> (8 - this.bitPos)
		}
	}

	return b, nil
}

// AtEnd returns true once every bit has been consumed.
func (this *DefaultBitSource) AtEnd() bool {
	return this.pos >= len(this.data)
}

// StrictBitSource behaves like DefaultBitSource but reports
// cabac.ErrInputExhausted instead of fabricating zero bits past the end
// of the sequence. It is meant for callers that want to detect decoder
// over-reads; most codecs legitimately read a few bits past the payload
// and should use the default source.
type StrictBitSource struct {
	inner DefaultBitSource
}

// NewStrictBitSource creates a StrictBitSource over the given bytes.
func NewStrictBitSource(data []byte) *StrictBitSource {
	this := &StrictBitSource{}
	this.inner.data = data
	return this
}

// ReadBit returns the next bit or ErrInputExhausted at end of stream.
func (this *StrictBitSource) ReadBit() (int, error) {
	if this.inner.AtEnd() {
		return 0, cabac.ErrInputExhausted
	}

	return this.inner.ReadBit()
}

// ReadByte returns the next 8 bits or ErrInputExhausted when fewer than
// 8 bits remain.
func (this *StrictBitSource) ReadByte() (byte, error) {
	remaining := (len(this.inner.data)-this.inner.pos)*8 - int(this.inner.bitPos)

	if remaining < 8 {
		return 0, cabac.ErrInputExhausted
	}

	return this.inner.ReadByte()
}

// AtEnd returns true once every bit has been consumed.
func (this *StrictBitSource) AtEnd() bool {
	return this.inner.AtEnd()
}
