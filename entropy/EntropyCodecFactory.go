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
	"strings"

	"github.com/pkg/errors"

	cabac "github.com/pmorel/cabac-go"
)

const (
	VP8_TYPE  = uint32(0) // VP8 boolean coder
	RANS_TYPE = uint32(1) // Asymmetric Numeral System, range variant
	FPAQ_TYPE = uint32(2) // Carryless coder after fpaq0
	H265_TYPE = uint32(3) // ITU-T H.264/H.265 CABAC
)

// NewBitEncoder creates an encoder of the given type over the shared
// 8-bit probability context. The H.265 coder uses its own context type
// and is created directly with NewH265Encoder.
func NewBitEncoder(entropyType uint32) (cabac.Encoder[BitContext], error) {
	switch entropyType {

	case VP8_TYPE:
		return NewVP8Encoder()

	case RANS_TYPE:
		return NewRANSEncoder(), nil

	case FPAQ_TYPE:
		return NewFPAQEncoder(), nil

	case H265_TYPE:
		return nil, errors.New("H265 codec: tracks a state machine context, use NewH265Encoder")

	default:
		return nil, errors.Errorf("Unsupported entropy codec type: '%d'", entropyType)
	}
}

// NewBitDecoder creates a decoder of the given type over the given
// encoded bytes.
func NewBitDecoder(data []byte, entropyType uint32) (cabac.Decoder[BitContext], error) {
	switch entropyType {

	case VP8_TYPE:
		return NewVP8Decoder(data)

	case RANS_TYPE:
		return NewRANSDecoder(data)

	case FPAQ_TYPE:
		return NewFPAQDecoder(data)

	case H265_TYPE:
		return nil, errors.New("H265 codec: tracks a state machine context, use NewH265Decoder")

	default:
		return nil, errors.Errorf("Unsupported entropy codec type: '%d'", entropyType)
	}
}

// GetName returns the name of the entropy codec given its type
func GetName(entropyType uint32) (string, error) {
	switch entropyType {

	case VP8_TYPE:
		return "VP8", nil

	case RANS_TYPE:
		return "RANS", nil

	case FPAQ_TYPE:
		return "FPAQ", nil

	case H265_TYPE:
		return "H265", nil

	default:
		return "", errors.Errorf("Unsupported entropy codec type: '%d'", entropyType)
	}
}

// GetType returns the type of the entropy codec given its name
func GetType(name string) (uint32, error) {
	switch strings.ToUpper(name) {

	case "VP8":
		return VP8_TYPE, nil

	case "RANS":
		return RANS_TYPE, nil

	case "FPAQ":
		return FPAQ_TYPE, nil

	case "H265":
		return H265_TYPE, nil

	default:
		return 0, errors.Errorf("Unsupported entropy codec type: '%s'", name)
	}
}
