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
	"encoding/binary"

	"github.com/pkg/errors"

	cabac "github.com/pmorel/cabac-go"
)

// Uncompressed diagnostic codec. Every context is stamped with a unique
// sequence number that is serialized next to each bit, so decoding with
// a context presented out of order fails loudly instead of silently
// producing wrong bits like the arithmetic coders do. Useful to debug
// callers before switching to a real codec.

const _DEBUG_BYPASS_MARK = uint32(0xDEAD)

// DebugContext carries the sequence stamp of the diagnostic codec.
type DebugContext struct {
	value uint32
}

// NewDebugContextTable returns n fresh contexts for the debug codec.
func NewDebugContextTable(n int) []DebugContext {
	return make([]DebugContext, n)
}

// DebugEncoder implements the encoder contract without compressing.
type DebugEncoder struct {
	buf     []byte
	counter uint32
}

// NewDebugEncoder creates an empty diagnostic encoder.
func NewDebugEncoder() *DebugEncoder {
	this := &DebugEncoder{}
	this.counter = 100
	return this
}

// Put records one bit together with the stamp of its context.
func (this *DebugEncoder) Put(bit int, ctx *DebugContext) error {
	if ctx.value == 0 {
		this.counter++
		ctx.value = this.counter
	}

	this.buf = binary.LittleEndian.AppendUint32(this.buf, ctx.value)
	this.counter++
	ctx.value = this.counter
	this.buf = append(this.buf, byte(bit&1))
	return nil
}

// PutBypass records one bit with the bypass marker.
func (this *DebugEncoder) PutBypass(bit int) error {
	this.buf = binary.LittleEndian.AppendUint32(this.buf, _DEBUG_BYPASS_MARK)
	this.buf = append(this.buf, byte(bit&1))
	return nil
}

// Finish returns the recorded bytes.
func (this *DebugEncoder) Finish() ([]byte, error) {
	return this.buf, nil
}

// DebugDecoder verifies the context stamps recorded by DebugEncoder.
type DebugDecoder struct {
	data    []byte
	pos     int
	counter uint32
}

// NewDebugDecoder creates a decoder over the given recorded bytes.
func NewDebugDecoder(data []byte) *DebugDecoder {
	this := &DebugDecoder{}
	this.data = data
	this.counter = 100
	return this
}

func (this *DebugDecoder) next() (uint32, byte, error) {
	if this.pos+5 > len(this.data) {
		return 0, 0, errors.Wrap(cabac.ErrInputExhausted, "Debug codec")
	}

	stamp := binary.LittleEndian.Uint32(this.data[this.pos:])
	bit := this.data[this.pos+4]
	this.pos += 5
	return stamp, bit, nil
}

// Get returns the next bit after checking that the caller presented the
// same context as the encoder did at this position.
func (this *DebugDecoder) Get(ctx *DebugContext) (int, error) {
	if ctx.value == 0 {
		this.counter++
		ctx.value = this.counter
	}

	stamp, bit, err := this.next()

	if err != nil {
		return 0, err
	}

	if stamp != ctx.value {
		return 0, errors.Errorf("Debug codec: context mismatch at offset %d: stream has stamp %d, caller presented %d", this.pos-5, stamp, ctx.value)
	}

	this.counter++
	ctx.value = this.counter
	return int(bit), nil
}

// GetBypass returns the next bit after checking that the encoder wrote
// it through the bypass path.
func (this *DebugDecoder) GetBypass() (int, error) {
	stamp, bit, err := this.next()

	if err != nil {
		return 0, err
	}

	if stamp != _DEBUG_BYPASS_MARK {
		return 0, errors.Errorf("Debug codec: expected bypass at offset %d, stream has stamp %d", this.pos-5, stamp)
	}

	return int(bit), nil
}
