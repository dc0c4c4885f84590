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
package coeff

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Int_01(t *testing.T) {
	var (
		a = NewInt(7)
		b = NewInt(-3)
	)
	//
	assert.True(t, a.Add(b).Equals(NewInt(4)))
	assert.True(t, a.Sub(b).Equals(NewInt(10)))
	assert.True(t, a.Mul(b).Equals(NewInt(-21)))
	assert.True(t, b.Neg().Equals(NewInt(3)))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, IntRing{}.One().IsOne())
	assert.False(t, b.IsZero())
}

func Test_Int_02(t *testing.T) {
	// Aliasing: Clone must be independent of the original.
	a := NewInt(42)
	b := a.Clone()
	c := a.Add(NewInt(1))
	//
	assert.True(t, b.Equals(NewInt(42)))
	assert.True(t, c.Equals(NewInt(43)))
	assert.True(t, a.Equals(b))
}

func Test_Int_Serde_01(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		var buf bytes.Buffer
		//
		require.NoError(t, NewInt(v).Encode(&buf))
		//
		back, err := IntRing{}.Decode(&buf)
		require.NoError(t, err)
		assert.True(t, back.Equals(NewInt(v)), "round trip of %d", v)
	}
}

func Test_Rat_01(t *testing.T) {
	var (
		half  = NewRat(1, 2)
		third = NewRat(1, 3)
	)
	//
	assert.True(t, half.Add(third).Equals(NewRat(5, 6)))
	assert.True(t, half.Sub(half).IsZero())
	assert.True(t, half.Mul(third).Equals(NewRat(1, 6)))
	assert.True(t, NewRat(2, 2).IsOne())
}

func Test_Rat_Div_01(t *testing.T) {
	q, err := NewRat(3, 4).DivInt64(6)
	require.NoError(t, err)
	assert.True(t, q.Equals(NewRat(1, 8)))
	//
	_, err = NewRat(1, 1).DivInt64(0)
	require.True(t, errors.Is(err, ErrCoefficient))
}

func Test_Rat_Serde_01(t *testing.T) {
	for _, v := range []Rat{NewRat(0, 1), NewRat(-7, 3), NewRat(22, 7)} {
		var buf bytes.Buffer
		//
		require.NoError(t, v.Encode(&buf))
		//
		back, err := RatRing{}.Decode(&buf)
		require.NoError(t, err)
		assert.True(t, back.Equals(v), "round trip of %s", v)
	}
}

func Test_Field_01(t *testing.T) {
	var (
		a = NewField(11)
		b = NewField(5)
	)
	//
	assert.True(t, a.Add(b).Equals(NewField(16)))
	assert.True(t, a.Sub(b).Equals(NewField(6)))
	assert.True(t, a.Mul(b).Equals(NewField(55)))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, FieldRing{}.One().IsOne())
	// Negation wraps modulo the field characteristic.
	assert.True(t, a.Add(a.Neg()).IsZero())
}

func Test_Field_Div_01(t *testing.T) {
	// 10/5 = 2 in any field of characteristic > 5.
	q, err := NewField(10).DivInt64(5)
	require.NoError(t, err)
	assert.True(t, q.Equals(NewField(2)))
	//
	_, err = NewField(1).DivInt64(0)
	require.True(t, errors.Is(err, ErrCoefficient))
}

func Test_Field_Serde_01(t *testing.T) {
	for _, v := range []int64{0, 1, -99, 123456789} {
		var buf bytes.Buffer
		//
		require.NoError(t, NewField(v).Encode(&buf))
		//
		back, err := FieldRing{}.Decode(&buf)
		require.NoError(t, err)
		assert.True(t, back.Equals(NewField(v)), "round trip of %d", v)
	}
}
