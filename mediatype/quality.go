// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mediatype

import (
	"strconv"
	"strings"
)

// Quality is a q or qs value in thousandths, from 0 to MaxQuality.
type Quality uint16

// MaxQuality is the quality of a range or declaration without a q/qs parameter.
const MaxQuality Quality = 1000

// Weight is the product of two qualities, in millionths.
type Weight uint32

// MaxWeight is MaxQuality times MaxQuality.
const MaxWeight = Weight(MaxQuality) * Weight(MaxQuality)

// ParseQuality parses an HTTP qvalue into thousandths.
//
// The accepted grammar is the one from RFC 9110:
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
//
// so "1", "1.0", "0.9", "0.85" and "0.001" parse to 1000, 1000, 900, 850 and 1.
func ParseQuality(s string) (Quality, error) {
	if len(s) == 0 || len(s) > 5 {
		return 0, &ParseError{Input: s, Reason: "quality value must be between 0 and 1 with at most 3 decimals"}
	}

	switch s[0] {
	case '0', '1':
	default:
		return 0, &ParseError{Input: s, Reason: "quality value must start with 0 or 1"}
	}

	whole := Quality(s[0]-'0') * MaxQuality
	if len(s) == 1 {
		return whole, nil
	}
	if s[1] != '.' {
		return 0, &ParseError{Input: s, Offset: 1, Reason: "expected '.' in quality value"}
	}

	var frac Quality
	multiplier := Quality(100)
	for i := 2; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &ParseError{Input: s, Offset: i, Reason: "invalid digit in quality value"}
		}
		frac += Quality(c-'0') * multiplier
		multiplier /= 10
	}

	if whole == MaxQuality && frac != 0 {
		return 0, &ParseError{Input: s, Offset: 2, Reason: "quality value exceeds 1"}
	}

	return whole + frac, nil
}

// String renders q in its shortest decimal form ("1", "0.5", "0.125").
func (q Quality) String() string {
	if q >= MaxQuality {
		return "1"
	}
	if q == 0 {
		return "0"
	}
	return "0." + strings.TrimRight(pad(uint64(q), 3), "0")
}

// Times returns the combined weight of q and o.
func (q Quality) Times(o Quality) Weight {
	return Weight(q) * Weight(o)
}

// String renders w as a decimal ("1", "0.16", "0.000001").
func (w Weight) String() string {
	if w >= MaxWeight {
		return "1"
	}
	if w == 0 {
		return "0"
	}
	return "0." + strings.TrimRight(pad(uint64(w), 6), "0")
}

// pad left pads the decimal form of v with zeros to width digits.
func pad(v uint64, width int) string {
	s := strconv.FormatUint(v, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
