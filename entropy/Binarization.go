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

	cabac "github.com/pmorel/cabac-go"
)

// Multi-bit binarizations written once over the generic coder contract
// so that they run unchanged on every codec family.

// PutNBits encodes the num low bits of value, most significant first.
// Bit position i uses ctxs[i], clamped to the last context when the
// table is shorter than the value.
func PutNBits[C any](w cabac.Encoder[C], value uint64, num int, ctxs []C) error {
	for i := num - 1; i >= 0; i-- {
		idx := i

		if idx > len(ctxs)-1 {
			idx = len(ctxs) - 1
		}

		if err := w.Put(int(value>>uint(i))&1, &ctxs[idx]); err != nil {
			return err
		}
	}

	return nil
}

// GetNBits decodes num bits written by PutNBits.
func GetNBits[C any](r cabac.Decoder[C], num int, ctxs []C) (uint64, error) {
	value := uint64(0)

	for i := num - 1; i >= 0; i-- {
		idx := i

		if idx > len(ctxs)-1 {
			idx = len(ctxs) - 1
		}

		bit, err := r.Get(&ctxs[idx])

		if err != nil {
			return 0, err
		}

		value |= uint64(bit) << uint(i)
	}

	return value, nil
}

// PutUnary encodes v as v one bits followed by a terminating zero bit.
// Bit position i uses ctxs[i], clamped to the last context.
func PutUnary[C any](w cabac.Encoder[C], v int, ctxs []C) error {
	for i := 0; i <= v; i++ {
		idx := i

		if idx > len(ctxs)-1 {
			idx = len(ctxs) - 1
		}

		bit := 0

		if i != v {
			bit = 1
		}

		if err := w.Put(bit, &ctxs[idx]); err != nil {
			return err
		}
	}

	return nil
}

// GetUnary decodes a value written by PutUnary.
func GetUnary[C any](r cabac.Decoder[C], ctxs []C) (int, error) {
	value := 0

	for {
		idx := value

		if idx > len(ctxs)-1 {
			idx = len(ctxs) - 1
		}

		bit, err := r.Get(&ctxs[idx])

		if err != nil {
			return 0, err
		}

		if bit == 0 {
			return value, nil
		}

		value++
	}
}

// PutBranched encodes v most significant bit first, selecting the
// context of each level by the bits sent so far: the bit at position l
// (counting from the least significant) uses branches[l][prefix], where
// prefix holds the higher bits already sent. branches must hold one row per bit
// and each row at least 1<<(len(branches)-1) contexts.
func PutBranched[C any](w cabac.Encoder[C], v byte, branches [][]C) error {
	levels := len(branches)

	if levels < 1 || levels > 8 {
		return errors.Errorf("Branched binarization: invalid level count %d", levels)
	}

	if int(v) >= 1<<uint(levels) {
		return errors.Errorf("Branched binarization: value %d does not fit in %d bits", v, levels)
	}

	prefix := 0

	for index := levels - 1; index >= 0; index-- {
		bit := int(v>>uint(index)) & 1

		if err := w.Put(bit, &branches[index][prefix]); err != nil {
			return err
		}

		prefix = (prefix << 1) | bit
	}

	return nil
}

// GetBranched decodes a value written by PutBranched.
func GetBranched[C any](r cabac.Decoder[C], branches [][]C) (byte, error) {
	levels := len(branches)

	if levels < 1 || levels > 8 {
		return 0, errors.Errorf("Branched binarization: invalid level count %d", levels)
	}

	value := byte(0)
	prefix := 0

	for index := levels - 1; index >= 0; index-- {
		bit, err := r.Get(&branches[index][prefix])

		if err != nil {
			return 0, err
		}

		value |= byte(bit) << uint(index)
		prefix = (prefix << 1) | bit
	}

	return value, nil
}

// PutExpGolomb encodes v with a k-th order Exp-Golomb code over the
// bypass path: a unary prefix of scale escapes followed by the residual
// bits.
func PutExpGolomb[C any](w cabac.Encoder[C], v uint32, k uint) error {
	for v >= 1<<k {
		if err := w.PutBypass(1); err != nil {
			return err
		}

		v -= 1 << k
		k++
	}

	if err := w.PutBypass(0); err != nil {
		return err
	}

	for i := int(k) - 1; i >= 0; i-- {
		if err := w.PutBypass(int(v>>uint(i)) & 1); err != nil {
			return err
		}
	}

	return nil
}

// GetExpGolomb decodes a value written by PutExpGolomb with the same
// order k.
func GetExpGolomb[C any](r cabac.Decoder[C], k uint) (uint32, error) {
	value := uint32(0)

	for {
		bit, err := r.GetBypass()

		if err != nil {
			return 0, err
		}

		if bit == 0 {
			break
		}

		value += 1 << k
		k++
	}

	for i := int(k) - 1; i >= 0; i-- {
		bit, err := r.GetBypass()

		if err != nil {
			return 0, err
		}

		value += uint32(bit) << uint(i)
	}

	return value, nil
}
