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
package key

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/bits-and-blooms/bitset"
)

func Test_Packed_01(t *testing.T) {
	check_Packed_RoundTrip(t, []int64{})
	check_Packed_RoundTrip(t, []int64{7})
	check_Packed_RoundTrip(t, []int64{1, 2})
	check_Packed_RoundTrip(t, []int64{1, 0, 2, 0, 3})
	check_Packed_RoundTrip(t, []int64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
}

func Test_Packed_Invalid_01(t *testing.T) {
	// Too many exponents for a single word.
	exponents := make([]int64, MaxPackedArity+1)
	//
	if _, err := NewPacked(exponents); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected invalid shape, got %v", err)
	}
	// Slot overflow: width is 64/16 = 4 bits, guard reserved.
	wide := make([]int64, 16)
	wide[0] = 8
	//
	if _, err := NewPacked(wide); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected invalid shape, got %v", err)
	}
}

func Test_Packed_Mul_01(t *testing.T) {
	a, _ := NewPacked([]int64{1, 2, 3})
	b, _ := NewPacked([]int64{3, 2, 1})
	//
	m, err := a.Mul(b)
	//
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if !slices.Equal(m.Unpack(), []int64{4, 4, 4}) {
		t.Errorf("unexpected product %v", m.Unpack())
	}
	//
	if m.Degree() != 12 {
		t.Errorf("expected degree 12, got %d", m.Degree())
	}
}

func Test_Packed_Mul_02(t *testing.T) {
	limit := int64(slotLimit(slotWidth(2)))
	//
	a, _ := NewPacked([]int64{limit, 0})
	b, _ := NewPacked([]int64{1, 0})
	//
	if _, err := a.Mul(b); !errors.Is(err, ErrMonomialOverflow) {
		t.Errorf("expected monomial overflow, got %v", err)
	}
}

func Test_Packed_Degree_01(t *testing.T) {
	m, _ := NewPacked([]int64{4, 1, 0, 2})
	indices := bitset.New(4)
	indices.Set(0)
	indices.Set(2)
	//
	if m.Degree() != 7 {
		t.Errorf("expected degree 7, got %d", m.Degree())
	}
	//
	if d := m.PDegree(indices); d != 4 {
		t.Errorf("expected partial degree 4, got %d", d)
	}
}

func Test_Packed_Hash_01(t *testing.T) {
	a, _ := NewPacked([]int64{1, 2, 3})
	b, _ := NewPacked([]int64{1, 2, 3})
	//
	if !a.Equals(b) || a.Hash() != b.Hash() {
		t.Errorf("equal monomials must hash equal")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Packed_RoundTrip(t *testing.T, exponents []int64) {
	m, err := NewPacked(exponents)
	//
	if err != nil {
		t.Fatalf("constructing %v: %v", exponents, err)
	}
	//
	back := m.Unpack()
	//
	if len(exponents) != 0 && !slices.Equal(back, exponents) {
		t.Errorf("expected %v, got %v", exponents, back)
	}
	//
	var buf bytes.Buffer
	//
	if err := m.Encode(&buf); err != nil {
		t.Fatalf("encoding: %v", err)
	}
	//
	d, err := PackedFactory{}.Decode(&buf)
	//
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	//
	if !d.Equals(m) {
		t.Errorf("decoded monomial differs")
	}
}
