// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package symbol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Set_01(t *testing.T) {
	s := NewSet("y", "x", "z", "x")
	//
	require.Equal(t, uint(3), s.Len())
	assert.Equal(t, "x", s.Nth(0))
	assert.Equal(t, "y", s.Nth(1))
	assert.Equal(t, "z", s.Nth(2))
	assert.Equal(t, "{x, y, z}", s.String())
}

func Test_Set_02(t *testing.T) {
	s := NewSet("b", "a", "c")
	//
	i, ok := s.IndexOf("b")
	require.True(t, ok)
	assert.Equal(t, uint(1), i)
	//
	_, ok = s.IndexOf("d")
	assert.False(t, ok)
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains(""))
}

func Test_Set_Merge_01(t *testing.T) {
	a := NewSet("x", "z")
	b := NewSet("y", "z")
	//
	m, ma, mb := Merge(a, b)
	require.True(t, m.Equals(NewSet("x", "y", "z")))
	assert.Equal(t, []uint{0, 2}, ma)
	assert.Equal(t, []uint{1, 2}, mb)
}

func Test_Set_Merge_02(t *testing.T) {
	// Merge is commutative and idempotent.
	a := NewSet("u", "t")
	b := NewSet("v")
	//
	ab, _, _ := Merge(a, b)
	ba, _, _ := Merge(b, a)
	require.True(t, ab.Equals(ba))
	//
	aa, ma, mb := Merge(a, a)
	require.True(t, aa.Equals(a))
	assert.Equal(t, []uint{0, 1}, ma)
	assert.Equal(t, []uint{0, 1}, mb)
}

func Test_Set_Merge_03(t *testing.T) {
	// Re-indexing composed with merge is the identity on the merged operand.
	a := NewSet("a", "c", "e")
	b := NewSet("b", "c", "d")
	//
	m, ma, mb := Merge(a, b)
	//
	for i := uint(0); i < a.Len(); i++ {
		assert.Equal(t, a.Nth(i), m.Nth(ma[i]))
	}
	//
	for i := uint(0); i < b.Len(); i++ {
		assert.Equal(t, b.Nth(i), m.Nth(mb[i]))
	}
}

func Test_Set_Subset_01(t *testing.T) {
	s := NewSet("t", "u", "x", "y", "z")
	//
	bits, err := s.IndexSubset(NewSet("u", "z"))
	require.NoError(t, err)
	assert.True(t, bits.Test(1))
	assert.True(t, bits.Test(4))
	assert.Equal(t, uint(2), bits.Count())
}

func Test_Set_Subset_02(t *testing.T) {
	s := NewSet("x", "y")
	//
	_, err := s.IndexSubset(NewSet("x", "w"))
	require.True(t, errors.Is(err, ErrUnknownSymbol))
}

func Test_Set_Serde_01(t *testing.T) {
	for _, s := range []*Set{EmptySet(), NewSet("x"), NewSet("alpha", "beta", "gamma")} {
		var buf bytes.Buffer
		//
		require.NoError(t, s.Encode(&buf))
		//
		back, err := DecodeSet(&buf)
		require.NoError(t, err)
		assert.True(t, s.Equals(back))
	}
}
