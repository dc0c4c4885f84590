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
package series

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/key"
	"github.com/consensys/go-series/pkg/symbol"
)

var (
	intRing    = coeff.IntRing{}
	dp2Factory = key.DPackedFactory{PSize: 2}
	dp4Factory = key.DPackedFactory{PSize: 4}
)

func Test_Series_AddTerm_01(t *testing.T) {
	s := mkPoly(t, []string{"x", "y"})
	addTerm(t, s, []int64{1, 0}, 2)
	addTerm(t, s, []int64{0, 1}, 3)
	//
	if s.Len() != 2 {
		t.Errorf("expected 2 terms, got %d", s.Len())
	}
	// Like terms combine.
	addTerm(t, s, []int64{1, 0}, 5)
	//
	if s.Len() != 2 {
		t.Errorf("expected 2 terms after combining, got %d", s.Len())
	}
	//
	k := mkKey(t, dp2Factory, []int64{1, 0})
	//
	if c, ok := s.Find(k); !ok || !c.Equals(coeff.NewInt(7)) {
		t.Errorf("expected combined coefficient 7, got %s", c)
	}
}

func Test_Series_AddTerm_02(t *testing.T) {
	// Inserting a term whose coefficient combines to zero leaves no trace.
	s := mkPoly(t, []string{"x"})
	addTerm(t, s, []int64{4}, 9)
	addTerm(t, s, []int64{4}, -9)
	//
	if !s.IsZero() {
		t.Errorf("expected empty series, got %d terms", s.Len())
	}
	// Zero coefficients are never stored.
	addTerm(t, s, []int64{1}, 0)
	//
	if s.Len() != 0 {
		t.Errorf("zero coefficient stored")
	}
}

func Test_Series_AddTerm_03(t *testing.T) {
	// Arity mismatch is an invalid shape.
	s := mkPoly(t, []string{"x", "y"})
	k := mkKey(t, dp2Factory, []int64{1})
	//
	if err := s.AddTerm(k, coeff.NewInt(1)); !errors.Is(err, key.ErrInvalidShape) {
		t.Errorf("expected invalid shape, got %v", err)
	}
}

func Test_Series_Add_01(t *testing.T) {
	// a + b == b + a over a shared symbol set.
	a := mkPoly(t, []string{"x", "y"})
	addTerm(t, a, []int64{1, 0}, 1)
	addTerm(t, a, []int64{2, 1}, 4)
	//
	b := mkPoly(t, []string{"x", "y"})
	addTerm(t, b, []int64{0, 1}, 2)
	addTerm(t, b, []int64{2, 1}, -4)
	//
	ab, err := Add(a, b)
	checkOk(t, err)
	//
	ba, err := Add(b, a)
	checkOk(t, err)
	//
	if !ab.Equals(ba) {
		t.Errorf("addition not commutative: %s vs %s", ab, ba)
	}
	// The (2,1) terms cancel exactly.
	if ab.Len() != 2 {
		t.Errorf("expected 2 terms, got %s", ab)
	}
}

func Test_Series_Add_02(t *testing.T) {
	// (a + b) + c == a + (b + c)
	rnd := rand.New(rand.NewPCG(7, 1))
	//
	a := randomPoly(t, rnd, 10)
	b := randomPoly(t, rnd, 15)
	c := randomPoly(t, rnd, 20)
	//
	ab, err := Add(a, b)
	checkOk(t, err)
	abc1, err := Add(ab, c)
	checkOk(t, err)
	//
	bc, err := Add(b, c)
	checkOk(t, err)
	abc2, err := Add(a, bc)
	checkOk(t, err)
	//
	if !abc1.Equals(abc2) {
		t.Errorf("addition not associative")
	}
}

func Test_Series_Add_03(t *testing.T) {
	// a + 0 == a, and a + (-a) == 0.
	rnd := rand.New(rand.NewPCG(7, 2))
	a := randomPoly(t, rnd, 12)
	zero := mkPoly(t, []string{"x", "y", "z"})
	//
	r, err := Add(a, zero)
	checkOk(t, err)
	//
	if !r.Equals(a) {
		t.Errorf("zero not neutral under addition")
	}
	//
	r, err = Add(a, Negate(a))
	checkOk(t, err)
	//
	if !r.IsZero() {
		t.Errorf("a + (-a) != 0: %s", r)
	}
}

func Test_Series_Add_04(t *testing.T) {
	// Operands over different symbol sets are rewritten into the merged set.
	x, err := MakeGenerator(dp2Factory, intRing, "x")
	checkOk(t, err)
	y, err := MakeGenerator(dp2Factory, intRing, "y")
	checkOk(t, err)
	//
	s, err := Add(x, y)
	checkOk(t, err)
	//
	if !s.Symbols().Equals(symbol.NewSet("x", "y")) {
		t.Errorf("expected merged symbol set, got %s", s.Symbols())
	}
	//
	if s.Len() != 2 {
		t.Errorf("expected 2 terms, got %s", s)
	}
	// Every monomial of the sum has the merged arity.
	s.ForEach(func(k key.DPacked, c coeff.Int) bool {
		if k.Arity() != 2 {
			t.Errorf("monomial arity %d under symbol set of size 2", k.Arity())
		}
		//
		return true
	})
}

func Test_Series_Sub_01(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 3))
	a := randomPoly(t, rnd, 18)
	//
	r, err := Sub(a, a)
	checkOk(t, err)
	//
	if !r.IsZero() {
		t.Errorf("a - a != 0: %s", r)
	}
}

func Test_Series_InPlace_01(t *testing.T) {
	a := mkPoly(t, []string{"x"})
	addTerm(t, a, []int64{1}, 1)
	//
	b := mkPoly(t, []string{"x"})
	addTerm(t, b, []int64{2}, 3)
	//
	r, err := AddInPlace(a, b)
	checkOk(t, err)
	// The returned reference is the mutated left operand.
	if r != a || a.Len() != 2 {
		t.Errorf("in-place addition did not mutate the left operand")
	}
	//
	_, err = SubInPlace(a, b)
	checkOk(t, err)
	//
	if a.Len() != 1 {
		t.Errorf("expected 1 term after subtracting back, got %s", a)
	}
}

func Test_Series_Scalar_01(t *testing.T) {
	a := mkPoly(t, []string{"x", "y"})
	addTerm(t, a, []int64{1, 1}, 2)
	addTerm(t, a, []int64{0, 2}, 5)
	//
	r := MulScalar(a, coeff.NewInt(3))
	//
	k := mkKey(t, dp2Factory, []int64{1, 1})
	//
	if c, ok := r.Find(k); !ok || !c.Equals(coeff.NewInt(6)) {
		t.Errorf("expected coefficient 6, got %s", c)
	}
	// Original untouched.
	if c, _ := a.Find(k); !c.Equals(coeff.NewInt(2)) {
		t.Errorf("scalar multiplication mutated its operand")
	}
}

func Test_Series_Scalar_02(t *testing.T) {
	// Multiplying by scalar zero yields the empty series over the *empty*
	// symbol set, tag preserved.
	a := mkPoly(t, []string{"x", "y"})
	addTerm(t, a, []int64{1, 0}, 1)
	checkOk(t, SetTotalTruncation(a, 10))
	//
	r := MulScalar(a, coeff.NewInt(0))
	//
	if !r.IsZero() || r.Symbols().Len() != 0 {
		t.Errorf("expected empty series over empty symbol set, got %s over %s", r, r.Symbols())
	}
	//
	if GetTruncation(r) != Total(10) {
		t.Errorf("truncation tag not preserved: %s", GetTruncation(r))
	}
}

func Test_Series_Scalar_03(t *testing.T) {
	a := mkPoly(t, []string{"x"})
	addTerm(t, a, []int64{1}, 1)
	//
	r, err := AddScalar(a, coeff.NewInt(7))
	checkOk(t, err)
	//
	unit := mkKey(t, dp2Factory, []int64{0})
	//
	if c, ok := r.Find(unit); !ok || !c.Equals(coeff.NewInt(7)) {
		t.Errorf("expected constant term 7, got %s", r)
	}
	//
	r, err = SubScalar(r, coeff.NewInt(7))
	checkOk(t, err)
	//
	if r.Len() != 1 {
		t.Errorf("expected constant term gone, got %s", r)
	}
}

func Test_Series_Filter_01(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 4))
	a := randomPoly(t, rnd, 30)
	before := a.Len()
	// Retain even total degrees only.
	removed := a.Filter(func(k key.DPacked, c coeff.Int) bool { return k.Degree()%2 == 0 })
	//
	if a.Len()+removed != before {
		t.Errorf("filter accounting broken: %d + %d != %d", a.Len(), removed, before)
	}
	//
	a.ForEach(func(k key.DPacked, c coeff.Int) bool {
		if k.Degree()%2 != 0 {
			t.Errorf("odd-degree term survived filter")
		}
		//
		return true
	})
}

func Test_Series_Clone_01(t *testing.T) {
	a := mkPoly(t, []string{"x"})
	addTerm(t, a, []int64{3}, 4)
	//
	b := a.Clone()
	addTerm(t, b, []int64{3}, 1)
	//
	k := mkKey(t, dp2Factory, []int64{3})
	//
	if c, _ := a.Find(k); !c.Equals(coeff.NewInt(4)) {
		t.Errorf("clone shares storage with original")
	}
	//
	if c, _ := b.Find(k); !c.Equals(coeff.NewInt(5)) {
		t.Errorf("clone mutation lost")
	}
}

func Test_Series_ByteSize_01(t *testing.T) {
	a := mkPoly(t, []string{"x", "y", "z"})
	empty := ByteSize(a)
	//
	addTerm(t, a, []int64{1, 2, 3}, 12345)
	addTerm(t, a, []int64{3, 2, 1}, 54321)
	//
	if full := ByteSize(a); full <= empty {
		t.Errorf("byte size did not grow with terms: %d vs %d", full, empty)
	}
}

func Test_Series_Generator_01(t *testing.T) {
	x, err := MakeGeneratorIn(dp4Factory, intRing, symbol.NewSet("x", "y", "z"), "y", nil)
	checkOk(t, err)
	//
	if x.Len() != 1 {
		t.Fatalf("expected single term, got %s", x)
	}
	//
	k := mkKey(t, dp4Factory, []int64{0, 1, 0})
	//
	if c, ok := x.Find(k); !ok || !c.IsOne() {
		t.Errorf("generator term malformed: %s", x)
	}
}

func Test_Series_Generator_02(t *testing.T) {
	// Unknown generator name.
	_, err := MakeGeneratorIn(dp4Factory, intRing, symbol.NewSet("x", "y"), "w", nil)
	//
	if !errors.Is(err, symbol.ErrUnknownSymbol) {
		t.Errorf("expected unknown symbol, got %v", err)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

type intPoly = Series[key.DPacked, coeff.Int]

func mkPoly(t *testing.T, names []string) *intPoly {
	s, err := New[key.DPacked, coeff.Int](dp2Factory, intRing, symbol.NewSet(names...), nil)
	//
	if err != nil {
		t.Fatalf("constructing series: %v", err)
	}
	//
	return s
}

func mkKey(t *testing.T, factory key.DPackedFactory, exponents []int64) key.DPacked {
	k, err := factory.FromExponents(exponents)
	//
	if err != nil {
		t.Fatalf("constructing monomial %v: %v", exponents, err)
	}
	//
	return k
}

func addTerm(t *testing.T, s *intPoly, exponents []int64, c int64) {
	k, err := dp2Factory.FromExponents(exponents)
	//
	if err == nil {
		err = s.AddTerm(k, coeff.NewInt(c))
	}
	//
	if err != nil {
		t.Fatalf("adding term %v: %v", exponents, err)
	}
}

// Construct a random polynomial over {x, y, z} with up to n terms.
func randomPoly(t *testing.T, rnd *rand.Rand, n uint) *intPoly {
	s := mkPoly(t, []string{"x", "y", "z"})
	//
	for i := uint(0); i < n; i++ {
		exponents := []int64{rnd.Int64N(5), rnd.Int64N(5), rnd.Int64N(5)}
		addTerm(t, s, exponents, rnd.Int64N(19)-9)
	}
	//
	return s
}

func checkOk(t *testing.T, err error) {
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
