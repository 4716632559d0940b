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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{in: "1", want: 1000},
		{in: "1.", want: 1000},
		{in: "1.0", want: 1000},
		{in: "1.000", want: 1000},
		{in: "0", want: 0},
		{in: "0.", want: 0},
		{in: "0.9", want: 900},
		{in: "0.85", want: 850},
		{in: "0.567", want: 567},
		{in: "0.001", want: 1},
		{in: "", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "1.001", wantErr: true},
		{in: "2", wantErr: true},
		{in: "0.1234", wantErr: true},
		{in: "01", wantErr: true},
		{in: "0.x", wantErr: true},
		{in: "-0.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseQuality(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMediaType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1", MaxQuality.String())
	assert.Equal(t, "0", Quality(0).String())
	assert.Equal(t, "0.5", Quality(500).String())
	assert.Equal(t, "0.125", Quality(125).String())
	assert.Equal(t, "0.05", Quality(50).String())
	assert.Equal(t, "0.001", Quality(1).String())
}

func TestWeight(t *testing.T) {
	t.Parallel()

	foo := Quality(400).Times(400)
	bar := Quality(500).Times(400)

	assert.Equal(t, Weight(160000), foo)
	assert.Equal(t, Weight(200000), bar)
	assert.Greater(t, bar, foo)
	assert.Equal(t, "0.16", foo.String())
	assert.Equal(t, "0.2", bar.String())
	assert.Equal(t, "1", MaxQuality.Times(MaxQuality).String())
	assert.Equal(t, "0.000001", Quality(1).Times(1).String())
}

// 0.1*0.3 and 0.3*0.1 are not equal in float64 arithmetic on every path;
// fixed point weights always are.
func TestWeightExactComparison(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Quality(100).Times(300), Quality(300).Times(100))
	assert.Equal(t, Quality(700).Times(100), Quality(100).Times(700))
}
