//go:build !simd

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

func (this *FPAQParallelDecoder) getLanes(ctxs []BitContext, bits []int) {
	for i := range this.lanes {
		bits[i] = this.decode(i, uint32(ctxs[i].Probability()))
		ctxs[i].Update(bits[i])
		this.fillBits(i)
	}
}
